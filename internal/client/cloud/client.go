// Package cloud wraps github.com/sashabaranov/go-openai configured against
// a Cerebras-compatible OpenAI API surface. Grounded on the teacher's
// internal/client/openai package, which constructed a goopenai.Client from
// an API key and base URL the same way; unlike the teacher's client, this
// one never falls back to a stub on failure — a cloud provider with no
// working network path is a hard failure, not something to paper over.
package cloud

import (
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/relaygate/gateway/internal/correlation"
)

// Client wraps the go-openai SDK client for the cloud inference service.
type Client struct {
	sdk *goopenai.Client
}

// New configures a Client against baseURL using apiKey for bearer auth. The
// current correlation ID carried on a call's context.Context is forwarded as
// an outbound header, same as the local-runner client.
func New(baseURL, apiKey string) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Transport: correlation.RoundTripper{}}
	return &Client{sdk: goopenai.NewClientWithConfig(cfg)}
}

// SDK exposes the underlying go-openai client for the cloud provider to
// call directly — there is no value in re-wrapping every method goopenai
// already exposes cleanly.
func (c *Client) SDK() *goopenai.Client {
	return c.sdk
}
