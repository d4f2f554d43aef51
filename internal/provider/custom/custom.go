// Package custom implements the gateway's deterministic echo provider: no
// upstream call, no network, no randomness. It answers chat completions by
// echoing the last user message back as the assistant's reply, and reports
// real token counts via tiktoken-go — legitimate here, unlike a masked
// upstream, because there is no upstream response being approximated.
// Grounded on the teacher's internal/provider/custom package (token.go's use
// of pkoukk/tiktoken-go for cl100k_base counting); the route-config/proxy
// shape that package's provider.go modeled doesn't apply since this
// provider never proxies anywhere.
package custom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/relaygate/gateway/internal/apperr"
	"github.com/relaygate/gateway/internal/openai"
)

const providerName = "custom"

// catalog is the static model list this provider serves. There is exactly
// one model: a deterministic echo model useful for integration tests and
// local development without a real upstream configured.
var catalog = []openai.Model{
	openai.NewModel("echo-1", catalogEpoch, providerName),
}

// catalogEpoch is a fixed creation timestamp for the static catalog so
// responses are stable across runs, matching this provider's determinism.
const catalogEpoch int64 = 1700000000

// Provider is the deterministic echo implementation of provider.Provider.
type Provider struct {
	encoder *tiktoken.Tiktoken
}

// New builds the echo provider. It loads the cl100k_base encoding eagerly
// so a missing/broken encoding fails at startup rather than on first
// request.
func New() (*Provider, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &Provider{encoder: enc}, nil
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) SupportsStreaming() bool { return true }

func (p *Provider) count(text string) int {
	return len(p.encoder.Encode(text, nil, nil))
}

func (p *Provider) ListModels(ctx context.Context) (*openai.ModelList, error) {
	return &openai.ModelList{Object: "list", Data: catalog}, nil
}

func lastUserMessage(messages []openai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content.String()
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content.String()
	}
	return ""
}

func (p *Provider) reply(req *openai.ChatCompletionRequest) string {
	return "echo: " + lastUserMessage(req.Messages)
}

func (p *Provider) CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, apperr.NewValidationError("messages must not be empty")
	}

	reply := p.reply(req)
	promptTokens := p.promptTokens(req.Messages)
	completionTokens := p.count(reply)

	finish := "stop"
	return &openai.ChatCompletionResponse{
		ID:      "echo-" + fmt.Sprint(time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []openai.Choice{
			{
				Index: 0,
				Message: &openai.Message{
					Role:    "assistant",
					Content: openai.NewStringContent(reply),
				},
				FinishReason: &finish,
			},
		},
		Usage: &openai.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

func (p *Provider) promptTokens(messages []openai.Message) int {
	total := 0
	for _, m := range messages {
		total += p.count(m.Content.String())
	}
	return total
}

// StreamChatCompletion streams the echo reply back word by word, with no
// delay between chunks, as a deterministic stand-in for a real upstream's
// token stream.
func (p *Provider) StreamChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest, fn func(*openai.ChatCompletionResponse) bool) error {
	if req == nil || len(req.Messages) == 0 {
		return apperr.NewValidationError("messages must not be empty")
	}

	reply := p.reply(req)
	words := strings.Fields(reply)
	id := "echo-" + fmt.Sprint(time.Now().UnixNano())
	created := time.Now().Unix()

	for i, word := range words {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text := word
		if i < len(words)-1 {
			text += " "
		}

		chunk := &openai.ChatCompletionResponse{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []openai.Choice{
				{
					Index: 0,
					Delta: &openai.Message{Content: openai.NewStringContent(text)},
				},
			},
		}

		if !fn(chunk) {
			return nil
		}
	}

	finish := "stop"
	final := &openai.ChatCompletionResponse{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   req.Model,
		Choices: []openai.Choice{
			{Index: 0, Delta: &openai.Message{}, FinishReason: &finish},
		},
	}
	fn(final)

	return nil
}

// CreateEmbeddings returns a deterministic, low-dimensional embedding
// derived from each input's token count — not a semantically meaningful
// vector, but stable and cheap, fitting for a provider whose entire purpose
// is predictable behavior without a real model backing it.
func (p *Provider) CreateEmbeddings(ctx context.Context, req *openai.EmbeddingsRequest) (*openai.EmbeddingsResponse, error) {
	if req == nil || len(req.Model) == 0 {
		return nil, apperr.NewValidationError("model is required")
	}
	if len(req.Input.Values) == 0 {
		return nil, apperr.NewValidationError("input must not be empty")
	}

	dims := 8
	if req.Dimensions != nil && *req.Dimensions > 0 {
		dims = *req.Dimensions
	}

	data := make([]openai.Embedding, 0, len(req.Input.Values))
	totalTokens := 0

	for i, text := range req.Input.Values {
		tks := p.count(text)
		totalTokens += tks
		data = append(data, openai.Embedding{
			Object:    "embedding",
			Index:     i,
			Embedding: openai.NewEmbeddingValue(deterministicVector(tks, dims), req.EncodingFormat),
		})
	}

	return &openai.EmbeddingsResponse{
		Object: "list",
		Model:  req.Model,
		Data:   data,
		Usage: &openai.Usage{
			PromptTokens: totalTokens,
			TotalTokens:  totalTokens,
		},
	}, nil
}

// deterministicVector builds a dims-dimensional vector from a token count so
// identical inputs always produce identical embeddings, and so that a
// caller-requested dimensions value is honored exactly — unlike a real
// embedding model, this provider has no fixed native width to truncate or
// pad from.
func deterministicVector(seed, dims int) []float64 {
	vec := make([]float64, dims)
	for i := range vec {
		vec[i] = float64((seed*(i+1))%997) / 997.0
	}
	return vec
}
