package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// knownChatRequestFields lists every field ChatCompletionRequest types
// explicitly. Anything else on the wire is collected into Extra; Extra is
// not serialized (json:"-") and no provider forwards it upstream.
var knownChatRequestFields = map[string]struct{}{
	"model":             {},
	"messages":          {},
	"stream":            {},
	"stream_options":    {},
	"temperature":       {},
	"top_p":             {},
	"top_k":             {},
	"n":                 {},
	"stop":              {},
	"max_tokens":        {},
	"presence_penalty":  {},
	"frequency_penalty": {},
	"seed":              {},
	"user":              {},
	"logprobs":          {},
	"top_logprobs":      {},
	"logit_bias":        {},
	"tools":             {},
	"tool_choice":       {},
	"functions":         {},
	"function_call":     {},
	"response_format":   {},
	"metadata":          {},
}

// Message is one entry in a chat completion request's "messages" array.
type Message struct {
	Role       string          `json:"role"`
	Content    Content         `json:"content"`
	Name       string          `json:"name,omitempty"`
	ToolCalls  json.RawMessage `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

// ChatCompletionRequest is the body of a POST .../chat/completions call.
// ToolChoice and tool-call related fields are carried as opaque
// json.RawMessage rather than typed out: this gateway dispatches requests to
// providers, it doesn't interpret tool-calling semantics itself, so
// preserving the caller's exact bytes end-to-end is both simpler and safer
// than a lossy re-encode.
type ChatCompletionRequest struct {
	Model            string          `json:"model"`
	Messages         []Message       `json:"messages"`
	Stream           bool            `json:"stream,omitempty"`
	StreamOptions    json.RawMessage `json:"stream_options,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	TopK             *int            `json:"top_k,omitempty"`
	N                *int            `json:"n,omitempty"`
	Stop             *StringOrSlice  `json:"stop,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	Seed             *int64          `json:"seed,omitempty"`
	User             string          `json:"user,omitempty"`
	LogProbs         *bool           `json:"logprobs,omitempty"`
	TopLogProbs      *int            `json:"top_logprobs,omitempty"`
	LogitBias        map[string]int  `json:"logit_bias,omitempty"`
	Tools            json.RawMessage `json:"tools,omitempty"`
	ToolChoice       json.RawMessage `json:"tool_choice,omitempty"`
	Functions        json.RawMessage `json:"functions,omitempty"`
	FunctionCall     json.RawMessage `json:"function_call,omitempty"`
	ResponseFormat   json.RawMessage `json:"response_format,omitempty"`
	Metadata         map[string]any  `json:"metadata,omitempty"`

	// Extra holds every field on the incoming request this gateway doesn't
	// model explicitly, keyed by its top-level JSON name.
	Extra map[string]any `json:"-"`
}

// StringOrSlice models fields like "stop" that OpenAI accepts as either a
// single string or a list of strings.
type StringOrSlice struct {
	Values []string
}

func (s StringOrSlice) MarshalJSON() ([]byte, error) {
	if len(s.Values) == 1 {
		return json.Marshal(s.Values[0])
	}
	return json.Marshal(s.Values)
}

func (s *StringOrSlice) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.Values = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	s.Values = many
	return nil
}

// ParseChatCompletionRequest decodes body into a ChatCompletionRequest,
// populating Extra from whatever top-level keys aren't explicitly modeled.
// Uses gjson for the sidecar pass the same way the teacher's custom
// provider pulls fields out of an opaque upstream body by path, here turned
// around to classify the incoming request's own fields.
func ParseChatCompletionRequest(body []byte) (*ChatCompletionRequest, error) {
	var req ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	extra := map[string]any{}
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, known := knownChatRequestFields[k]; known {
			return true
		}
		extra[k] = value.Value()
		return true
	})
	if len(extra) > 0 {
		req.Extra = extra
	}

	return &req, nil
}

// Choice is one entry in a chat completion response's "choices" array.
type Choice struct {
	Index        int            `json:"index"`
	Message      *Message       `json:"message,omitempty"`
	Delta        *Message       `json:"delta,omitempty"`
	FinishReason *string        `json:"finish_reason"`
	Extra        map[string]any `json:"-"`
}

// Usage reports token accounting for a completed (non-streamed) request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the body returned from a non-streaming chat
// completion, and also the shape of each decoded chunk in a streamed one
// (with Choice.Delta populated instead of Choice.Message).
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}
