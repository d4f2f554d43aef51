// Package app is the gateway's composition root: from the Settings it is
// given, it constructs every other concrete dependency — logger, metrics
// client, upstream clients, providers — exactly once, and wires them into a
// gin.Engine.
// Nothing here is a package-level singleton; everything is constructed in
// New and passed down explicitly, fixing the two global-accessor patterns
// the teacher's own codebase carried (a cached settings getter, a
// package-level statsd client).
package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relaygate/gateway/internal/client/cloud"
	"github.com/relaygate/gateway/internal/config"
	"github.com/relaygate/gateway/internal/gateway"
	"github.com/relaygate/gateway/internal/logger"
	zaplogger "github.com/relaygate/gateway/internal/logger/zap"
	"github.com/relaygate/gateway/internal/metrics"
	"github.com/relaygate/gateway/internal/middleware"
	cloudprovider "github.com/relaygate/gateway/internal/provider/cloud"
	customprovider "github.com/relaygate/gateway/internal/provider/custom"
	localrunnerprovider "github.com/relaygate/gateway/internal/provider/localrunner"
)

// App holds the gateway's fully wired dependencies.
type App struct {
	Settings *config.Settings
	Logger   logger.Logger
	Metrics  *metrics.Client
	Engine   *gin.Engine
}

// defaultCloudModels is the static catalog advertised under the cloud
// namespace; no setting overrides it. Cerebras's
// OpenAI-compatible surface has no models endpoint this gateway can trust
// across deployments, so the catalog is always configured, never
// discovered.
var defaultCloudModels = []string{"llama3.1-8b", "llama3.1-70b"}

// New constructs an App from settings. The server is not started here —
// callers decide when to actually ListenAndServe. The custom provider loads
// its tiktoken encoding, which tiktoken-go may download on first use, and an
// enabled metrics client starts the statsd client's own goroutines.
func New(settings *config.Settings) (*App, error) {
	log := zaplogger.NewLogger(string(settings.LogLevel), settings.DevelopmentMode)

	m, err := metrics.New(settings.StatsdAddress, settings.EnableMetrics)
	if err != nil {
		return nil, err
	}

	custom, err := customprovider.New()
	if err != nil {
		return nil, err
	}

	local := localrunnerprovider.New(settings.OllamaHost, RequestTimeoutOrDefault(settings.RequestTimeout))

	cloudClient := cloud.New(settings.CerebrasBaseURL, settings.CerebrasAPIKey)
	cloudProv := cloudprovider.New(cloudClient, defaultCloudModels)

	var corsCfg *middleware.CORSConfig
	if settings.EnableCORS {
		corsCfg = &middleware.CORSConfig{
			AllowedOrigins:   settings.CORSAllowedOrigins,
			AllowedMethods:   settings.CORSAllowedMethods,
			AllowedHeaders:   settings.CORSAllowedHeaders,
			AllowCredentials: settings.CORSAllowCredentials,
		}
	}

	engine := gateway.New([]gateway.Namespace{
		{Prefix: "/v1", Provider: custom},
		{Prefix: "/cloud/v1", Provider: cloudProv},
		{Prefix: "/local/v1", Provider: local},
	}, gateway.Options{
		Logger:          log,
		Metrics:         m,
		AllowedAPIKeys:  settings.AllowedAPIKeys,
		RequireAuth:     settings.RequireAuth,
		DevelopmentMode: settings.DevelopmentMode,
		SecurityHeaders: settings.EnableSecurityHeaders,
		CORS:            corsCfg,
		Version:         BuildVersion,
	})

	return &App{Settings: settings, Logger: log, Metrics: m, Engine: engine}, nil
}

// BuildVersion is set via -ldflags at build time; "dev" otherwise.
var BuildVersion = "dev"

// RequestTimeoutOrDefault returns settings.RequestTimeout, or a safe
// fallback when it is somehow zero (Load already rejects non-positive
// timeouts, this only guards constructors called outside that path, e.g.
// in tests).
func RequestTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}
