package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatCompletionRequestPreservesUnknownFields(t *testing.T) {
	body := []byte(`{
		"model": "echo-1",
		"messages": [{"role": "user", "content": "hi"}],
		"logit_bias": {"123": -100},
		"seed": 7,
		"vendor_option": 7
	}`)

	req, err := ParseChatCompletionRequest(body)
	require.NoError(t, err)

	assert.Equal(t, "echo-1", req.Model)
	require.Len(t, req.Messages, 1)
	assert.True(t, req.Messages[0].Content.IsString())
	assert.Equal(t, "hi", req.Messages[0].Content.String())

	require.Contains(t, req.Extra, "vendor_option")
	assert.InDelta(t, 7, req.Extra["vendor_option"], 0.001)
	require.NotNil(t, req.Seed)
	assert.Equal(t, int64(7), *req.Seed)
	assert.Equal(t, -100, req.LogitBias["123"])
}

func TestContentRoundTripsStringAndParts(t *testing.T) {
	var c Content
	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &c))
	assert.True(t, c.IsString())
	assert.Equal(t, "hello", c.String())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(out))

	partsJSON := []byte(`[{"type":"text","text":"a"},{"type":"text","text":"b"}]`)
	var c2 Content
	require.NoError(t, json.Unmarshal(partsJSON, &c2))
	assert.False(t, c2.IsString())
	assert.Equal(t, "ab", c2.String())
	require.Len(t, c2.Parts(), 2)
}

func TestStringOrSliceAcceptsBothForms(t *testing.T) {
	var single StringOrSlice
	require.NoError(t, json.Unmarshal([]byte(`"stop"`), &single))
	assert.Equal(t, []string{"stop"}, single.Values)

	var many StringOrSlice
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &many))
	assert.Equal(t, []string{"a", "b"}, many.Values)
}

func TestParseEmbeddingsRequestSingleAndListInput(t *testing.T) {
	single, err := ParseEmbeddingsRequest([]byte(`{"model":"echo-1","input":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, single.Input.Values)

	list, err := ParseEmbeddingsRequest([]byte(`{"model":"echo-1","input":["a","b"],"dimensions":16}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list.Input.Values)
	require.NotNil(t, list.Dimensions)
	assert.Equal(t, 16, *list.Dimensions)
}

func TestNewModelDefaultsRootAndParent(t *testing.T) {
	m := NewModel("echo-1", 1000, "gateway")
	assert.Equal(t, "echo-1", m.Root)
	assert.Equal(t, "echo-1", m.Parent)
	assert.Empty(t, m.Permission)
	assert.NotNil(t, m.Permission)
}
