// Package localrunner is the wire client for the local model runner
// (an Ollama-compatible HTTP API). Grounded on the teacher's
// server/web/proxy/vllm.go handlers, which built *http.Request values by
// hand against a configured base URL and an injected http.Client rather
// than a generated SDK — the local runner has no Go SDK in the examples
// pack, so the same raw-http-client idiom applies here.
package localrunner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/relaygate/gateway/internal/correlation"
)

// Client talks to a local model runner's native API.
type Client struct {
	baseURL   string
	localhost bool
	http      *http.Client
}

// New builds a Client against baseURL (e.g. "http://localhost:11434") using
// the given timeout for every call. The current correlation ID carried on a
// call's context.Context is forwarded as an outbound header.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		localhost: isLocalhost(baseURL),
		http:      &http.Client{Timeout: timeout, Transport: correlation.RoundTripper{}},
	}
}

func isLocalhost(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

// isConnectionFailure reports whether err is a transport-level dial or DNS
// failure — connection refused, no such host — as opposed to an HTTP-level
// failure (a 5xx status, a read timeout) that must propagate unmasked for
// normalization upstream. Only this category of failure is eligible for the
// local-runner stub fallback.
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// stubEligible reports whether err should fall back to the deterministic
// in-process stub: only when this client is configured against localhost and
// the failure is a dial/DNS-level connection failure, never an HTTP-level
// one. This keeps local development and CI hermetic without masking a real
// runner's 5xx responses or timeouts.
func (c *Client) stubEligible(err error) bool {
	return c.localhost && isConnectionFailure(err)
}

// Tag describes one entry in the runner's local model catalog.
type Tag struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
}

type listTagsResponse struct {
	Models []Tag `json:"models"`
}

// ListTags returns every model currently pulled into the local runner. When
// the runner can't be dialed at all and the client is configured against
// localhost, it returns a single canned stub entry instead of an error.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		if c.stubEligible(err) {
			return stubTags(), nil
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.upstreamError(res)
	}

	var parsed listTagsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding list tags response: %w", err)
	}
	return parsed.Models, nil
}

func stubTags() []Tag {
	return []Tag{{Name: "local-stub", ModifiedAt: time.Now().UTC().Format(time.RFC3339)}}
}

// EmbeddingsRequest is the local runner's native embeddings request shape.
type EmbeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingsResponse is the local runner's native embeddings response
// shape: one vector per call, since the runner's API embeds a single prompt
// at a time.
type EmbeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embeddings computes a single embedding vector for req.Prompt. Falls back
// to a deterministic stub vector under the same localhost-dial-failure
// condition as ListTags.
func (c *Client) Embeddings(ctx context.Context, req EmbeddingsRequest) (*EmbeddingsResponse, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/embeddings", req)
	if err != nil {
		if c.stubEligible(err) {
			return stubEmbeddings(), nil
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.upstreamError(res)
	}

	var parsed EmbeddingsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}
	return &parsed, nil
}

func stubEmbeddings() *EmbeddingsResponse {
	return &EmbeddingsResponse{Embedding: []float64{0, 0, 0, 0}}
}

// ChatMessage is the local runner's native chat message shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the local runner's native chat request shape: parameters
// this gateway's ChatCompletionRequest maps onto it are translated by the
// localrunner provider before reaching this client.
type ChatRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// ChatResponseMessage is one decoded chat response's message payload.
type ChatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the local runner's native (non-streaming) chat response
// shape.
type ChatResponse struct {
	Model           string              `json:"model"`
	Message         ChatResponseMessage `json:"message"`
	Done            bool                `json:"done"`
	PromptEvalCount int                 `json:"prompt_eval_count"`
	EvalCount       int                 `json:"eval_count"`
}

// Chat runs a non-streaming chat request. Falls back to a deterministic stub
// reply under the same localhost-dial-failure condition as ListTags.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Stream = false
	res, err := c.do(ctx, http.MethodPost, "/api/chat", req)
	if err != nil {
		if c.stubEligible(err) {
			return stubChatResponse(req.Model), nil
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.upstreamError(res)
	}

	var parsed ChatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	return &parsed, nil
}

func stubChatResponse(model string) *ChatResponse {
	return &ChatResponse{
		Model:   model,
		Message: ChatResponseMessage{Role: "assistant", Content: "local runner unreachable; deterministic stub response"},
		Done:    true,
	}
}

// StreamChat runs a streaming chat request, returning the raw response body
// for the caller to decode chunk by chunk with internal/streamparse. The
// caller owns closing the body. Falls back to a single-chunk deterministic
// stub stream under the same localhost-dial-failure condition as ListTags.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (io.ReadCloser, error) {
	req.Stream = true
	res, err := c.do(ctx, http.MethodPost, "/api/chat", req)
	if err != nil {
		if c.stubEligible(err) {
			return stubChatStream(req.Model), nil
		}
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		return nil, c.upstreamError(res)
	}

	return res.Body, nil
}

func stubChatStream(model string) io.ReadCloser {
	line, _ := json.Marshal(stubChatResponse(model))
	return io.NopCloser(strings.NewReader(string(line) + "\n"))
}

func (c *Client) upstreamError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("local runner returned %d: %s", res.StatusCode, string(body))
}
