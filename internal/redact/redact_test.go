package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStringMasksSecretKeys(t *testing.T) {
	assert.Equal(t, masked, String("Authorization", "Bearer sk-secret"))
	assert.Equal(t, masked, String("x-api-key", "abc123"))
	assert.Equal(t, "gpt-4", String("model", "gpt-4"))
}

func TestHeadersMasksKnownHeadersOnly(t *testing.T) {
	in := map[string][]string{
		"Authorization": {"Bearer sk-secret"},
		"Content-Type":  {"application/json"},
	}
	out := Headers(in)
	assert.Equal(t, []string{masked}, out["Authorization"])
	assert.Equal(t, []string{"application/json"}, out["Content-Type"])
	assert.Equal(t, []string{"Bearer sk-secret"}, in["Authorization"], "must not mutate input")
}

func TestFieldsMasksSecretFields(t *testing.T) {
	out := Fields(zap.String("authorization", "Bearer sk-secret"), zap.Int("status_code", 200))
	assert.Len(t, out, 2)

	vals := map[string]zap.Field{}
	for _, f := range out {
		vals[f.Key] = f
	}
	assert.Equal(t, masked, vals["authorization"].String)
	assert.Equal(t, int64(200), vals["status_code"].Integer)
}
