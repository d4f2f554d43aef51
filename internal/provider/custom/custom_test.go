package custom

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygate/gateway/internal/openai"
)

func TestCreateChatCompletionEchoesLastUserMessage(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	req := &openai.ChatCompletionRequest{
		Model: "echo-1",
		Messages: []openai.Message{
			{Role: "system", Content: openai.NewStringContent("be nice")},
			{Role: "user", Content: openai.NewStringContent("hello there")},
		},
	}

	resp, err := p.CreateChatCompletion(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "echo: hello there", resp.Choices[0].Message.Content.String())
	assert.Greater(t, resp.Usage.PromptTokens, 0)
	assert.Greater(t, resp.Usage.CompletionTokens, 0)
}

func TestCreateChatCompletionRejectsEmptyMessages(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.CreateChatCompletion(context.Background(), &openai.ChatCompletionRequest{Model: "echo-1"})
	require.Error(t, err)

	var ve interface{ Validation() }
	assert.ErrorAs(t, err, &ve)
}

func TestStreamChatCompletionEmitsWordsThenFinish(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	req := &openai.ChatCompletionRequest{
		Model:    "echo-1",
		Messages: []openai.Message{{Role: "user", Content: openai.NewStringContent("a b c")}},
	}

	var chunks []*openai.ChatCompletionResponse
	err = p.StreamChatCompletion(context.Background(), req, func(c *openai.ChatCompletionResponse) bool {
		chunks = append(chunks, c)
		return true
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	require.NotNil(t, last.Choices[0].FinishReason)
	assert.Equal(t, "stop", *last.Choices[0].FinishReason)
}

func TestCreateEmbeddingsIsDeterministic(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	req := &openai.EmbeddingsRequest{Model: "echo-1", Input: openai.StringOrSlice{Values: []string{"hello", "hello"}}}
	resp, err := p.CreateEmbeddings(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, resp.Data[0].Embedding, resp.Data[1].Embedding)
}

func TestCreateEmbeddingsHonorsRequestedDimensions(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	dims := 16
	req := &openai.EmbeddingsRequest{
		Model:      "echo-1",
		Input:      openai.StringOrSlice{Values: []string{"hello"}},
		Dimensions: &dims,
	}
	resp, err := p.CreateEmbeddings(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)

	raw, err := json.Marshal(resp.Data[0].Embedding)
	require.NoError(t, err)
	var vec []float64
	require.NoError(t, json.Unmarshal(raw, &vec))
	assert.Len(t, vec, dims)
}

func TestCreateEmbeddingsDefaultsToEightDimensions(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	req := &openai.EmbeddingsRequest{Model: "echo-1", Input: openai.StringOrSlice{Values: []string{"hello"}}}
	resp, err := p.CreateEmbeddings(context.Background(), req)
	require.NoError(t, err)

	raw, err := json.Marshal(resp.Data[0].Embedding)
	require.NoError(t, err)
	var vec []float64
	require.NoError(t, json.Unmarshal(raw, &vec))
	assert.Len(t, vec, 8)
}

func TestCreateEmbeddingsBase64EncodingFormatRendersAsString(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	req := &openai.EmbeddingsRequest{
		Model:          "echo-1",
		Input:          openai.StringOrSlice{Values: []string{"hello"}},
		EncodingFormat: "base64",
	}
	resp, err := p.CreateEmbeddings(context.Background(), req)
	require.NoError(t, err)

	raw, err := json.Marshal(resp.Data[0].Embedding)
	require.NoError(t, err)
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.NotEmpty(t, s)
}

func TestListModelsReturnsStaticCatalog(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	list, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "echo-1", list.Data[0].ID)
	assert.Equal(t, list.Data[0].ID, list.Data[0].Root)
}
