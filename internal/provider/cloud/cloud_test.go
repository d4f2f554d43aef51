package cloud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudclient "github.com/relaygate/gateway/internal/client/cloud"
	"github.com/relaygate/gateway/internal/openai"
)

func TestCreateChatCompletionRejectsStreamTrue(t *testing.T) {
	p := New(cloudclient.New("https://example.invalid", "key"), []string{"llama3.1-8b"})

	_, err := p.CreateChatCompletion(context.Background(), &openai.ChatCompletionRequest{
		Model:    "llama3.1-8b",
		Stream:   true,
		Messages: []openai.Message{{Role: "user", Content: openai.NewStringContent("hi")}},
	})
	require.Error(t, err)

	var pe interface{ UpstreamFailure() }
	assert.ErrorAs(t, err, &pe)
}

func TestStreamChatCompletionIsNotImplemented(t *testing.T) {
	p := New(cloudclient.New("https://example.invalid", "key"), []string{"llama3.1-8b"})

	err := p.StreamChatCompletion(context.Background(), &openai.ChatCompletionRequest{Model: "llama3.1-8b"}, func(*openai.ChatCompletionResponse) bool { return true })
	require.Error(t, err)

	var ni interface{ NotImplemented() }
	assert.ErrorAs(t, err, &ni)
}

func TestToSDKMessagesPreservesStringContent(t *testing.T) {
	out := toSDKMessages([]openai.Message{{Role: "user", Content: openai.NewStringContent("hi")}})
	require.Len(t, out, 1)
	assert.Equal(t, "hi", out[0].Content)
	assert.Empty(t, out[0].MultiContent)
}

func TestToSDKMessagesPreservesImageURLParts(t *testing.T) {
	parts := []openai.ContentPart{
		{Type: "text", Text: "describe this"},
		{Type: "image_url", ImageURL: []byte(`{"url":"https://example.invalid/cat.png","detail":"high"}`)},
	}
	out := toSDKMessages([]openai.Message{{Role: "user", Content: openai.NewPartsContent(parts)}})
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Content)
	require.Len(t, out[0].MultiContent, 2)

	assert.Equal(t, "describe this", out[0].MultiContent[0].Text)
	require.NotNil(t, out[0].MultiContent[1].ImageURL)
	assert.Equal(t, "https://example.invalid/cat.png", out[0].MultiContent[1].ImageURL.URL)
}

func TestListModelsReturnsConfiguredCatalog(t *testing.T) {
	p := New(cloudclient.New("https://example.invalid", "key"), []string{"llama3.1-8b", "llama3.1-70b"})

	list, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "llama3.1-8b", list.Data[0].ID)
}
