package gateway

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relaygate/gateway/internal/apperr"
	"github.com/relaygate/gateway/internal/logger"
	"github.com/relaygate/gateway/internal/metrics"
	"github.com/relaygate/gateway/internal/openai"
	"github.com/relaygate/gateway/internal/provider"
	"github.com/relaygate/gateway/internal/sse"
)

func modelsHandler(p provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := p.ListModels(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func embeddingsHandler(p provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondError(c, apperr.NewValidationError("failed to read request body"))
			return
		}

		req, err := openai.ParseEmbeddingsRequest(body)
		if err != nil {
			respondError(c, apperr.NewValidationErrorWithDetails("malformed embeddings request body", map[string]any{"parse_error": err.Error()}))
			return
		}

		if len(req.Model) == 0 {
			respondError(c, apperr.NewValidationError("model is required"))
			return
		}

		resp, err := p.CreateEmbeddings(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// chatCompletionsHandler dispatches to the unary or streaming path based
// solely on req.Stream — it never interprets the request further, matching
// this gateway's role as a dispatch layer rather than a request processor.
func chatCompletionsHandler(p provider.Provider, log logger.Logger, m *metrics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondError(c, apperr.NewValidationError("failed to read request body"))
			return
		}

		req, err := openai.ParseChatCompletionRequest(body)
		if err != nil {
			respondError(c, apperr.NewValidationErrorWithDetails("malformed chat completion request body", map[string]any{"parse_error": err.Error()}))
			return
		}

		if len(req.Model) == 0 {
			respondError(c, apperr.NewValidationError("model is required"))
			return
		}
		if len(req.Messages) == 0 {
			respondError(c, apperr.NewValidationError("messages must not be empty"))
			return
		}

		if req.Stream {
			if !p.SupportsStreaming() {
				respondError(c, apperr.NewNotImplementedError(p.Name()+" does not support streaming chat completions"))
				return
			}
			streamChatCompletion(c, p, req, log, m)
			return
		}

		resp, err := p.CreateChatCompletion(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// streamChatCompletion distinguishes a failure before any chunk reached the
// client from a mid-stream failure: if the provider errors before delivering
// a single chunk (e.g. the upstream can't even be dialed), the HTTP status
// hasn't been committed yet and the gateway can still respond with a plain
// 502 JSON envelope per the unary error contract. Once the first chunk has
// been written, the 200 status is already on the wire, so any later failure
// can only be reported as an SSE error event followed by [DONE].
func streamChatCompletion(c *gin.Context, p provider.Provider, req *openai.ChatCompletionRequest, log logger.Logger, m *metrics.Client) {
	framer := sse.NewFramer(c)
	started := false

	streamErr := p.StreamChatCompletion(c.Request.Context(), req, func(chunk *openai.ChatCompletionResponse) bool {
		if !started {
			started = true
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
		}
		if err := framer.Event(chunk); err != nil {
			log.Errorw("failed to encode streaming chunk", "error", err.Error())
			return false
		}
		return true
	})

	if streamErr != nil {
		m.Incr("gateway.stream.error", []string{"provider:" + p.Name()}, 1)
		log.Errorw("streaming chat completion failed", "provider", p.Name(), "error", streamErr.Error())

		if !started {
			respondError(c, streamErr)
			return
		}

		env, status := apperr.ToEnvelope(streamErr)
		if status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		_ = framer.Event(env)
	}

	if started {
		framer.Done()
	}
}

func respondError(c *gin.Context, err error) {
	env, status := apperr.ToEnvelope(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, env)
}
