// Package cloud adapts the gateway's wire types onto the cloud inference
// service via github.com/sashabaranov/go-openai, the same SDK the teacher's
// provider/openai package models its request/response types after. Unlike
// the local runner, there is no stub fallback: a cloud provider that can't
// reach its upstream is a hard ProviderError, and streaming a unary request
// is rejected outright rather than silently buffered.
package cloud

import (
	"context"
	"encoding/json"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/relaygate/gateway/internal/apperr"
	"github.com/relaygate/gateway/internal/client/cloud"
	"github.com/relaygate/gateway/internal/openai"
)

const providerName = "cloud"

// Provider implements provider.Provider against the cloud inference
// service.
type Provider struct {
	client *cloud.Client
	models []openai.Model
}

// New builds a Provider. models is the static catalog advertised for this
// namespace — the cloud service has no list-models endpoint compatible with
// this gateway's deployment, so the catalog is configured rather than
// discovered.
func New(client *cloud.Client, models []string) *Provider {
	catalog := make([]openai.Model, 0, len(models))
	for _, m := range models {
		catalog = append(catalog, openai.NewModel(m, catalogEpoch, providerName))
	}
	return &Provider{client: client, models: catalog}
}

const catalogEpoch int64 = 1700000000

func (p *Provider) Name() string { return providerName }

func (p *Provider) SupportsStreaming() bool { return false }

func (p *Provider) ListModels(ctx context.Context) (*openai.ModelList, error) {
	return &openai.ModelList{Object: "list", Data: p.models}, nil
}

// toSDKContentParts maps the gateway's content-part union onto go-openai's
// MultiContent shape. image_url parts carry an opaque {url, detail?} object
// on the wire (spec-defined, not go-openai's own), so it's unmarshaled here
// rather than typed on ContentPart itself.
func toSDKContentParts(parts []openai.ContentPart) []goopenai.ChatMessagePart {
	out := make([]goopenai.ChatMessagePart, 0, len(parts))
	for _, part := range parts {
		if part.Type == "image_url" {
			var imageURL goopenai.ChatMessageImageURL
			_ = json.Unmarshal(part.ImageURL, &imageURL)
			out = append(out, goopenai.ChatMessagePart{
				Type:     goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &imageURL,
			})
			continue
		}
		out = append(out, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeText,
			Text: part.Text,
		})
	}
	return out
}

func toSDKMessages(messages []openai.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := goopenai.ChatCompletionMessage{Role: m.Role, Name: m.Name}
		if m.Content.IsString() {
			msg.Content = m.Content.String()
		} else {
			msg.MultiContent = toSDKContentParts(m.Content.Parts())
		}
		out = append(out, msg)
	}
	return out
}

func toSDKRequest(req *openai.ChatCompletionRequest) goopenai.ChatCompletionRequest {
	sdkReq := goopenai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toSDKMessages(req.Messages),
	}
	if req.Temperature != nil {
		sdkReq.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		sdkReq.TopP = float32(*req.TopP)
	}
	if req.MaxTokens != nil {
		sdkReq.MaxTokens = *req.MaxTokens
	}
	if req.N != nil {
		sdkReq.N = *req.N
	}
	if req.PresencePenalty != nil {
		sdkReq.PresencePenalty = float32(*req.PresencePenalty)
	}
	if req.FrequencyPenalty != nil {
		sdkReq.FrequencyPenalty = float32(*req.FrequencyPenalty)
	}
	if req.Stop != nil {
		sdkReq.Stop = req.Stop.Values
	}
	sdkReq.User = req.User
	return sdkReq
}

func fromSDKResponse(res goopenai.ChatCompletionResponse) *openai.ChatCompletionResponse {
	choices := make([]openai.Choice, 0, len(res.Choices))
	for _, c := range res.Choices {
		finish := string(c.FinishReason)
		choices = append(choices, openai.Choice{
			Index: c.Index,
			Message: &openai.Message{
				Role:    c.Message.Role,
				Content: openai.NewStringContent(c.Message.Content),
			},
			FinishReason: &finish,
		})
	}

	return &openai.ChatCompletionResponse{
		ID:      res.ID,
		Object:  res.Object,
		Created: res.Created,
		Model:   res.Model,
		Choices: choices,
		Usage: &openai.Usage{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
		},
	}
}

func (p *Provider) CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, apperr.NewValidationError("messages must not be empty")
	}
	if req.Stream {
		return nil, apperr.NewProviderError("cloud provider does not accept stream=true on the unary endpoint", nil)
	}

	res, err := p.client.SDK().CreateChatCompletion(ctx, toSDKRequest(req))
	if err != nil {
		return nil, apperr.NewProviderError("cloud chat completion failed", err)
	}

	return fromSDKResponse(res), nil
}

// StreamChatCompletion is not implemented for the cloud provider;
// SupportsStreaming reports false, so the router answers stream=true with 501.
func (p *Provider) StreamChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest, fn func(*openai.ChatCompletionResponse) bool) error {
	return apperr.NewNotImplementedError("cloud provider does not support streaming chat completions")
}

func (p *Provider) CreateEmbeddings(ctx context.Context, req *openai.EmbeddingsRequest) (*openai.EmbeddingsResponse, error) {
	if req == nil || len(req.Model) == 0 {
		return nil, apperr.NewValidationError("model is required")
	}
	if len(req.Input.Values) == 0 {
		return nil, apperr.NewValidationError("input must not be empty")
	}

	res, err := p.client.SDK().CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(req.Model),
		Input: req.Input.Values,
		User:  req.User,
	})
	if err != nil {
		return nil, apperr.NewProviderError("cloud embeddings failed", err)
	}

	data := make([]openai.Embedding, 0, len(res.Data))
	for _, d := range res.Data {
		vec := make([]float64, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float64(v)
		}
		data = append(data, openai.Embedding{Object: "embedding", Index: d.Index, Embedding: openai.NewEmbeddingValue(vec, req.EncodingFormat)})
	}

	return &openai.EmbeddingsResponse{
		Object: "list",
		Model:  req.Model,
		Data:   data,
		Usage: &openai.Usage{
			PromptTokens: res.Usage.PromptTokens,
			TotalTokens:  res.Usage.TotalTokens,
		},
	}, nil
}
