// Package localrunner adapts the gateway's OpenAI-compatible wire types
// onto a local, Ollama-compatible model runner: max_tokens becomes
// num_predict, stop becomes a plain string list, response_format maps to
// Ollama's format:"json" plus a structured hint, and embeddings for a list
// input are issued one request per element since the runner's native API
// embeds a single prompt at a time. Grounded on the teacher's
// server/web/proxy/vllm.go dispatch-and-translate handlers, generalized
// from vLLM's OpenAI-superset wire format to Ollama's distinct one.
package localrunner

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/relaygate/gateway/internal/apperr"
	"github.com/relaygate/gateway/internal/client/localrunner"
	"github.com/relaygate/gateway/internal/openai"
	"github.com/relaygate/gateway/internal/streamparse"
)

const providerName = "local-runner"

// Provider implements provider.Provider against a local model runner, with
// a deterministic stub fallback when the runner cannot be reached at all —
// useful for local development without a runner actually installed.
type Provider struct {
	client *localrunner.Client
}

// New builds a Provider talking to the runner at baseURL.
func New(baseURL string, timeout time.Duration) *Provider {
	return &Provider{client: localrunner.New(baseURL, timeout)}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) SupportsStreaming() bool { return true }

// ListModels translates the runner's tag catalog. The client itself (not
// this provider) is responsible for the localhost dial-failure stub
// fallback; any error reaching here is a real failure — an explicit 5xx or a
// timeout — and is surfaced as a ProviderError rather than masked.
func (p *Provider) ListModels(ctx context.Context) (*openai.ModelList, error) {
	tags, err := p.client.ListTags(ctx)
	if err != nil {
		return nil, apperr.NewProviderError("local runner list models failed", err)
	}

	models := make([]openai.Model, 0, len(tags))
	for _, tag := range tags {
		models = append(models, openai.NewModel(tag.Name, modifiedAtEpoch(tag.ModifiedAt), providerName))
	}
	return &openai.ModelList{Object: "list", Data: models}, nil
}

// modifiedAtEpoch parses the runner's ISO-8601 modified_at timestamp into a
// unix epoch, falling back to the current time when it can't be parsed —
// the catalog entry still needs a Created value, and "now" is a reasonable
// default for a timestamp this gateway doesn't control.
func modifiedAtEpoch(iso string) int64 {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Now().Unix()
	}
	return t.Unix()
}

func toRunnerMessages(messages []openai.Message) []localrunner.ChatMessage {
	out := make([]localrunner.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, localrunner.ChatMessage{Role: m.Role, Content: m.Content.String()})
	}
	return out
}

// toRunnerOptions maps the OpenAI sampling parameters this gateway
// understands onto Ollama's "options" object: max_tokens -> num_predict,
// stop -> a plain string list (Ollama doesn't accept the string-or-list
// OpenAI form), direct copies for temperature/top_p/top_k/seed, and
// pass-through capture (forwarded under their own key, uninterpreted) for
// presence/frequency penalties, logprobs, logit_bias, n, user,
// tools/tool_choice, and function_call — fields Ollama doesn't understand
// but that a caller's own tooling downstream of the runner might. A
// response_format of {type:"json_object"} additionally sets a "structured"
// hint alongside the format:"json" flag toRunnerRequest sets separately.
func toRunnerOptions(req *openai.ChatCompletionRequest) map[string]any {
	opts := map[string]any{}
	if req.MaxTokens != nil {
		opts["num_predict"] = *req.MaxTokens
	}
	if req.Temperature != nil {
		opts["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		opts["top_p"] = *req.TopP
	}
	if req.TopK != nil {
		opts["top_k"] = *req.TopK
	}
	if req.Seed != nil {
		opts["seed"] = *req.Seed
	}
	if req.Stop != nil && len(req.Stop.Values) > 0 {
		opts["stop"] = req.Stop.Values
	}
	if req.PresencePenalty != nil {
		opts["presence_penalty"] = *req.PresencePenalty
	}
	if req.FrequencyPenalty != nil {
		opts["frequency_penalty"] = *req.FrequencyPenalty
	}
	if req.LogProbs != nil {
		opts["logprobs"] = *req.LogProbs
	}
	if len(req.LogitBias) > 0 {
		opts["logit_bias"] = req.LogitBias
	}
	if req.N != nil {
		opts["n"] = *req.N
	}
	if len(req.User) != 0 {
		opts["user"] = req.User
	}
	if len(req.Tools) != 0 {
		opts["tools"] = req.Tools
	}
	if len(req.ToolChoice) != 0 {
		opts["tool_choice"] = req.ToolChoice
	}
	if len(req.FunctionCall) != 0 {
		opts["function_call"] = req.FunctionCall
	}
	if responseFormat(req.ResponseFormat) == "json" {
		opts["structured"] = true
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// responseFormat maps an OpenAI response_format object onto Ollama's
// format:"json" convention; any other shape is ignored since Ollama has no
// equivalent.
func responseFormat(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var parsed struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	if parsed.Type == "json_object" || parsed.Type == "json_schema" {
		return "json"
	}
	return ""
}

func toRunnerRequest(req *openai.ChatCompletionRequest) localrunner.ChatRequest {
	return localrunner.ChatRequest{
		Model:    req.Model,
		Messages: toRunnerMessages(req.Messages),
		Format:   responseFormat(req.ResponseFormat),
		Options:  toRunnerOptions(req),
	}
}

func (p *Provider) CreateChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, apperr.NewValidationError("messages must not be empty")
	}

	res, err := p.client.Chat(ctx, toRunnerRequest(req))
	if err != nil {
		return nil, apperr.NewProviderError("local runner chat completion failed", err)
	}

	finish := "stop"
	return &openai.ChatCompletionResponse{
		ID:      "local-" + strconv.FormatInt(time.Now().UnixNano(), 10),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []openai.Choice{
			{
				Index: 0,
				Message: &openai.Message{
					Role:    "assistant",
					Content: openai.NewStringContent(res.Message.Content),
				},
				FinishReason: &finish,
			},
		},
		Usage: &openai.Usage{
			PromptTokens:     res.PromptEvalCount,
			CompletionTokens: res.EvalCount,
			TotalTokens:      res.PromptEvalCount + res.EvalCount,
		},
	}, nil
}

// runnerChunk is the shape of one decoded line from the runner's streaming
// chat endpoint.
type runnerChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

func (p *Provider) StreamChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest, fn func(*openai.ChatCompletionResponse) bool) error {
	if req == nil || len(req.Messages) == 0 {
		return apperr.NewValidationError("messages must not be empty")
	}

	body, err := p.client.StreamChat(ctx, toRunnerRequest(req))
	if err != nil {
		return apperr.NewProviderError("local runner streaming chat completion failed", err)
	}
	defer body.Close()

	id := "local-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	created := time.Now().Unix()

	parseErr := streamparse.Each(body, func(raw []byte) bool {
		var chunk runnerChunk
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return true
		}

		var finish *string
		if chunk.Done {
			stop := "stop"
			finish = &stop
		}

		resp := &openai.ChatCompletionResponse{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []openai.Choice{
				{
					Index:        0,
					Delta:        &openai.Message{Content: openai.NewStringContent(chunk.Message.Content)},
					FinishReason: finish,
				},
			},
		}

		return fn(resp)
	})
	if parseErr != nil {
		return apperr.NewProviderError("local runner stream ended unexpectedly", parseErr)
	}

	return nil
}

// CreateEmbeddings issues one request per input element since the local
// runner's native embeddings endpoint accepts a single prompt at a time.
func (p *Provider) CreateEmbeddings(ctx context.Context, req *openai.EmbeddingsRequest) (*openai.EmbeddingsResponse, error) {
	if req == nil || len(req.Model) == 0 {
		return nil, apperr.NewValidationError("model is required")
	}
	if len(req.Input.Values) == 0 {
		return nil, apperr.NewValidationError("input must not be empty")
	}

	data := make([]openai.Embedding, 0, len(req.Input.Values))
	for i, text := range req.Input.Values {
		res, err := p.client.Embeddings(ctx, localrunner.EmbeddingsRequest{Model: req.Model, Prompt: text})
		if err != nil {
			return nil, apperr.NewProviderError("local runner embeddings failed", err)
		}
		data = append(data, openai.Embedding{Object: "embedding", Index: i, Embedding: openai.NewEmbeddingValue(res.Embedding, req.EncodingFormat)})
	}

	return &openai.EmbeddingsResponse{Object: "list", Model: req.Model, Data: data}, nil
}
