package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/relaygate/gateway/internal/apperr"
)

// extractBearerKey mirrors the teacher's getApiKey: it accepts a raw key
// under x-api-key/api-key, or a "Bearer <key>" Authorization header, and
// returns the first one present.
func extractBearerKey(req *http.Request) string {
	if k := req.Header.Get("x-api-key"); len(k) != 0 {
		return k
	}
	if k := req.Header.Get("api-key"); len(k) != 0 {
		return k
	}

	parts := strings.SplitN(req.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}

	return ""
}

// hasWellFormedBearerHeader reports whether the Authorization header is a
// "Bearer <token>" with a case-insensitive scheme and a non-empty token,
// without checking the token against anything. Used only by the
// development-mode relaxation below, which accepts any well-formed bearer
// header — not an absent one, and not the x-api-key/api-key forms
// extractBearerKey otherwise recognizes.
func hasWellFormedBearerHeader(req *http.Request) bool {
	parts := strings.SplitN(req.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	return len(strings.TrimSpace(parts[1])) != 0
}

// Auth builds a bearer-token gate against a static allowlist. When
// requireAuth is false, every request is let through unauthenticated. When
// developmentMode is true and the allowlist is empty, any well-formed
// "Bearer <token>" header is accepted regardless of its value — a request
// with no Authorization header at all, or a malformed one, is still
// rejected; this is strictly a dev convenience so a contributor doesn't have
// to mint a real key to hit /v1/chat/completions against the custom
// provider, not a way to disable auth outright.
func Auth(allowlist []string, requireAuth bool, developmentMode bool) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, k := range allowlist {
		allowed[k] = struct{}{}
	}

	return func(c *gin.Context) {
		if !requireAuth {
			c.Next()
			return
		}

		if len(allowed) == 0 && developmentMode {
			if !hasWellFormedBearerHeader(c.Request) {
				abortAuth(c, "missing or malformed bearer header")
				return
			}
			c.Next()
			return
		}

		key := extractBearerKey(c.Request)
		if len(key) == 0 {
			abortAuth(c, "missing API key")
			return
		}

		if _, ok := allowed[key]; !ok {
			abortAuth(c, "invalid API key")
			return
		}

		c.Next()
	}
}

func abortAuth(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	err := apperr.NewAuthError(message)
	env, status := apperr.ToEnvelope(err)
	c.AbortWithStatusJSON(status, env)
}
