package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGatewayEnv(t *testing.T) {
	vars := []string{
		"SERVICE_HOST", "SERVICE_PORT", "LOG_LEVEL", "ALLOWED_API_KEYS",
		"REQUIRE_AUTH", "DEVELOPMENT_MODE", "CEREBRAS_API_KEY", "CEREBRAS_BASE_URL",
		"OLLAMA_HOST", "REQUEST_TIMEOUT_S", "ENABLE_SECURITY_HEADERS", "ENABLE_CORS",
		"CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS", "CORS_ALLOWED_HEADERS",
		"CORS_ALLOW_CREDENTIALS", "ENABLE_ENRICHMENT", "ENABLE_METRICS", "STATSD_ADDRESS",
	}
	for _, v := range vars {
		t.Setenv(v, os.Getenv(v))
		os.Unsetenv(v)
	}
}

func TestParseAllowlist(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseAllowlist(" a , b ,, c "))
	assert.Equal(t, []string{}, ParseAllowlist(""))
	assert.Equal(t, []string{}, ParseAllowlist("   "))
	assert.Equal(t, []string{"x", "y"}, ParseAllowlist(`["x", " y "]`))
}

func TestLoadRejectsEmptyAllowlistWhenAuthRequired(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("DEVELOPMENT_MODE", "false")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadAllowsEmptyAllowlistInDevelopmentMode(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("DEVELOPMENT_MODE", "true")

	s, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, s.AllowedAPIKeys)
}

func TestLoadAllowsEmptyAllowlistWhenAuthNotRequired(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "")
	t.Setenv("REQUIRE_AUTH", "false")
	t.Setenv("DEVELOPMENT_MODE", "false")

	s, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, s.AllowedAPIKeys)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "k1")
	t.Setenv("LOG_LEVEL", "VERBOSE")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadNormalizesLogLevelCase(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "k1")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, s.LogLevel)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "k1")
	t.Setenv("REQUEST_TIMEOUT_S", "0")

	_, err := Load("")
	require.Error(t, err)

	t.Setenv("REQUEST_TIMEOUT_S", "-5")
	_, err = Load("")
	require.Error(t, err)
}

func TestCachedMemoizesAndInvalidates(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("ALLOWED_API_KEYS", "k1")
	defer Invalidate()

	s1, err := Cached("")
	require.NoError(t, err)

	t.Setenv("ALLOWED_API_KEYS", "k2")
	s2, err := Cached("")
	require.NoError(t, err)
	assert.Same(t, s1, s2, "second call should return the memoized value")

	Invalidate()
	s3, err := Cached("")
	require.NoError(t, err)
	assert.NotSame(t, s1, s3)
	assert.Equal(t, []string{"k2"}, s3.AllowedAPIKeys)
}
