package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsUsableSDKClient(t *testing.T) {
	c := New("https://api.cerebras.ai/v1", "test-key")
	assert.NotNil(t, c.SDK())
}
