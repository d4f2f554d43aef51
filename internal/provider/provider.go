// Package provider defines the Provider interface every backend (custom
// echo, local model runner, cloud inference) implements, and the gateway
// dispatches against. Grounded on the teacher's internal/provider/*
// subpackages (custom, openai, vllm, anthropic, azure, deepinfra), each of
// which modeled one upstream's request/response shape; here they collapse
// behind one interface parametrized over this gateway's own
// internal/openai wire types; the router only ever talks to Provider, never
// to a concrete backend.
package provider

import (
	"context"

	"github.com/relaygate/gateway/internal/openai"
)

// Provider is implemented by every backend this gateway routes requests to.
type Provider interface {
	// Name identifies the provider in logs and metrics tags.
	Name() string

	// SupportsStreaming reports whether StreamChatCompletion is implemented.
	// The router checks this before committing any SSE response bytes, so a
	// provider that can't stream gets a clean 501 JSON body instead of a
	// stream that opens and then immediately errors.
	SupportsStreaming() bool

	// ListModels returns the model catalog this provider serves.
	ListModels(ctx context.Context) (*openai.ModelList, error)

	// CreateEmbeddings computes embeddings for req.
	CreateEmbeddings(ctx context.Context, req *openai.EmbeddingsRequest) (*openai.EmbeddingsResponse, error)

	// CreateChatCompletion runs a non-streaming chat completion. Callers
	// must not invoke this with req.Stream set; the gateway branches on
	// Stream before calling into a provider at all.
	CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)

	// StreamChatCompletion runs a streaming chat completion, invoking fn
	// once per decoded chunk until the upstream's stream ends or fn returns
	// false. Providers that cannot stream return a *apperr.NotImplementedError.
	StreamChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest, fn func(*openai.ChatCompletionResponse) bool) error
}
