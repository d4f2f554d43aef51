package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToEnvelopeKnownKinds(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"auth", NewAuthError("nope"), http.StatusUnauthorized, "auth_error"},
		{"validation", NewValidationError("bad body"), http.StatusUnprocessableEntity, "validation_error"},
		{"provider", NewProviderError("upstream exploded", errors.New("dial tcp: refused")), http.StatusBadGateway, "provider_error"},
		{"not_implemented", NewNotImplementedError("streaming unsupported"), http.StatusNotImplemented, "not_implemented_error"},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, status := ToEnvelope(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantType, env.Error.Type)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestToEnvelopeUnknownErrorBecomesInternal(t *testing.T) {
	env, status := ToEnvelope(errors.New("raw upstream stack trace with secrets"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", env.Error.Type)
	assert.NotContains(t, env.Error.Message, "secrets")
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	err := NewValidationErrorWithDetails("missing field", map[string]any{"field": "model"})
	env, _ := ToEnvelope(err)
	assert.Equal(t, "model", env.Error.Details["field"])
}
