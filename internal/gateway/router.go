// Package gateway wires the HTTP surface: three OpenAI-compatible
// namespaces, each bound to one provider.Provider, plus an unauthenticated
// health check. Grounded on the teacher's server/web/proxy/route.go
// registration pattern — one handler constructor per concern, composed onto
// a gin.Engine by the composition root — generalized from "one handler per
// upstream-specific route" to "one registerNamespace call per provider",
// since every namespace this gateway exposes speaks the identical
// OpenAI-compatible surface and differs only in which Provider backs it.
package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relaygate/gateway/internal/apperr"
	"github.com/relaygate/gateway/internal/logger"
	"github.com/relaygate/gateway/internal/metrics"
	"github.com/relaygate/gateway/internal/middleware"
	"github.com/relaygate/gateway/internal/provider"
)

// Namespace binds a URL prefix (e.g. "/v1", "/cloud/v1") to the Provider
// that should serve every request under it.
type Namespace struct {
	Prefix   string
	Provider provider.Provider
}

// Options configures the router's ambient middleware.
type Options struct {
	Logger          logger.Logger
	Metrics         *metrics.Client
	AllowedAPIKeys  []string
	RequireAuth     bool
	DevelopmentMode bool
	SecurityHeaders bool
	CORS            *middleware.CORSConfig
	Version         string
}

// New builds a gin.Engine exposing GET /healthz unauthenticated, and every
// namespace's chat/completions, embeddings, and models endpoints behind the
// shared middleware chain.
func New(namespaces []Namespace, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationID())

	if opts.SecurityHeaders {
		r.Use(middleware.SecurityHeaders())
	}
	if opts.CORS != nil {
		r.Use(middleware.CORS(*opts.CORS))
	}
	r.Use(middleware.RequestLogging(opts.Logger, opts.Metrics))

	r.GET("/healthz", healthzHandler(opts.Version))
	r.NoRoute(notFoundHandler())

	authed := r.Group("/")
	authed.Use(middleware.Auth(opts.AllowedAPIKeys, opts.RequireAuth, opts.DevelopmentMode))

	for _, ns := range namespaces {
		registerNamespace(authed, ns.Prefix, ns.Provider, opts.Logger, opts.Metrics)
	}

	return r
}

// notFoundHandler renders the standard error envelope for any path that
// matches no registered namespace, so an unknown-namespace 404 is still the
// same JSON shape as every other error response the gateway produces. 404
// isn't one of the typed apperr kinds (it maps to no internal failure mode,
// just an unmatched route), so the envelope is built directly here.
func notFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperr.Envelope{
			Error: apperr.EnvelopeBody{
				Type:    "not_found_error",
				Message: "no route matches " + c.Request.URL.Path,
			},
		})
	}
}

func healthzHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	}
}

// registerNamespace mounts the three OpenAI-compatible endpoints this
// gateway supports under prefix, all dispatching to p.
func registerNamespace(r gin.IRoutes, prefix string, p provider.Provider, log logger.Logger, m *metrics.Client) {
	r.GET(prefix+"/models", modelsHandler(p))
	r.POST(prefix+"/embeddings", embeddingsHandler(p))
	r.POST(prefix+"/chat/completions", chatCompletionsHandler(p, log, m))
}
