// Package config resolves the gateway's Settings from the process
// environment. Construction is explicit and happens once, in the
// composition root (internal/app); nothing here is a service locator other
// components reach into directly.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// LogLevel is one of the four structured-log thresholds the gateway
// recognizes.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

func (l LogLevel) valid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	}
	return false
}

// rawEnv is the struct-tag-driven shape env.Parse fills in. Settings wraps it
// with parsed/validated fields (allowlist, timeout, log level) so the rest of
// the codebase never touches raw strings.
type rawEnv struct {
	ServiceHost string `env:"SERVICE_HOST" envDefault:"0.0.0.0"`
	ServicePort int    `env:"SERVICE_PORT" envDefault:"8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	AllowedAPIKeys string `env:"ALLOWED_API_KEYS" envDefault:""`
	RequireAuth    bool   `env:"REQUIRE_AUTH" envDefault:"true"`

	DevelopmentMode bool `env:"DEVELOPMENT_MODE" envDefault:"false"`

	CerebrasAPIKey  string `env:"CEREBRAS_API_KEY" envDefault:""`
	CerebrasBaseURL string `env:"CEREBRAS_BASE_URL" envDefault:"https://api.cerebras.ai/v1"`

	OllamaHost string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`

	RequestTimeoutS float64 `env:"REQUEST_TIMEOUT_S" envDefault:"30"`

	EnableSecurityHeaders bool `env:"ENABLE_SECURITY_HEADERS" envDefault:"false"`

	EnableCORS           bool   `env:"ENABLE_CORS" envDefault:"false"`
	CORSAllowedOrigins   string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
	CORSAllowedMethods   string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,OPTIONS"`
	CORSAllowedHeaders   string `env:"CORS_ALLOWED_HEADERS" envDefault:"Authorization,Content-Type,X-Request-ID"`
	CORSAllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	EnableEnrichment bool `env:"ENABLE_ENRICHMENT" envDefault:"false"`

	EnableMetrics bool   `env:"ENABLE_METRICS" envDefault:"false"`
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Settings is the fully-validated, immutable configuration value shared by
// every component in the process.
type Settings struct {
	ServiceHost string
	ServicePort int

	LogLevel LogLevel

	AllowedAPIKeys []string
	RequireAuth    bool

	DevelopmentMode bool

	CerebrasAPIKey  string
	CerebrasBaseURL string

	OllamaHost string

	RequestTimeout time.Duration

	EnableSecurityHeaders bool

	EnableCORS           bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool

	EnableEnrichment bool

	EnableMetrics bool
	StatsdAddress string
}

// ParseAllowlist accepts either a JSON array of strings or a comma-separated
// string, trims whitespace around every entry, and drops empties. This is
// exported separately from Load so it can be unit tested against the exact
// §8 property: `" a , b ,, c "` → `[a, b, c]`.
func ParseAllowlist(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return trimAndDropEmpty(arr)
		}
	}

	return trimAndDropEmpty(strings.Split(trimmed, ","))
}

func trimAndDropEmpty(in []string) []string {
	out := []string{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func splitList(raw string) []string {
	return trimAndDropEmpty(strings.Split(raw, ","))
}

// Load parses environment variables (optionally preloaded from a local .env
// file via godotenv, ignored if the file is absent) into a validated
// Settings value. It is lazy: nothing is read or validated until a caller
// invokes Load explicitly, so the composition root and tests can substitute
// environments freely before any request is served.
func Load(dotenvPath string) (*Settings, error) {
	if len(dotenvPath) > 0 {
		// A missing .env file is not an error: it's optional local-dev sugar.
		_ = godotenv.Load(dotenvPath)
	}

	raw := &rawEnv{}
	if err := env.Parse(raw); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	level := LogLevel(strings.ToUpper(strings.TrimSpace(raw.LogLevel)))
	if !level.valid() {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: must be one of DEBUG, INFO, WARNING, ERROR", raw.LogLevel)
	}

	if raw.RequestTimeoutS <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_S must be strictly positive, got %v", raw.RequestTimeoutS)
	}

	allowlist := ParseAllowlist(raw.AllowedAPIKeys)

	if raw.RequireAuth && !raw.DevelopmentMode && len(allowlist) == 0 {
		return nil, fmt.Errorf("ALLOWED_API_KEYS must be non-empty when REQUIRE_AUTH is true and DEVELOPMENT_MODE is false")
	}

	s := &Settings{
		ServiceHost:    raw.ServiceHost,
		ServicePort:    raw.ServicePort,
		LogLevel:       level,
		AllowedAPIKeys: allowlist,
		RequireAuth:    raw.RequireAuth,

		DevelopmentMode: raw.DevelopmentMode,

		CerebrasAPIKey:  raw.CerebrasAPIKey,
		CerebrasBaseURL: raw.CerebrasBaseURL,

		OllamaHost: raw.OllamaHost,

		RequestTimeout: time.Duration(raw.RequestTimeoutS * float64(time.Second)),

		EnableSecurityHeaders: raw.EnableSecurityHeaders,

		EnableCORS:           raw.EnableCORS,
		CORSAllowedOrigins:   splitList(raw.CORSAllowedOrigins),
		CORSAllowedMethods:   splitList(raw.CORSAllowedMethods),
		CORSAllowedHeaders:   splitList(raw.CORSAllowedHeaders),
		CORSAllowCredentials: raw.CORSAllowCredentials,

		EnableEnrichment: raw.EnableEnrichment,

		EnableMetrics: raw.EnableMetrics,
		StatsdAddress: raw.StatsdAddress,
	}

	return s, nil
}
