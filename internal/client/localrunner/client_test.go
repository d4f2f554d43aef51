package localrunner

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutError is a minimal net.Error whose Timeout() always reports true,
// used to confirm timeouts are excluded from the stub fallback regardless of
// host.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestListTagsDecodesModelCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(listTagsResponse{
			Models: []Tag{{Name: "llama3", ModifiedAt: "2024-01-01T00:00:00Z", Size: 123}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	tags, err := c.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "llama3", tags[0].Name)
}

func TestStubEligibleOnConnectionRefusedAgainstLocalhost(t *testing.T) {
	c := &Client{localhost: true}
	assert.True(t, c.stubEligible(syscall.ECONNREFUSED))
	assert.True(t, c.stubEligible(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
}

func TestStubEligibleFalseWhenNotLocalhost(t *testing.T) {
	c := &Client{localhost: false}
	assert.False(t, c.stubEligible(syscall.ECONNREFUSED))
}

func TestStubEligibleFalseForTimeoutEvenAgainstLocalhost(t *testing.T) {
	c := &Client{localhost: true}
	assert.False(t, c.stubEligible(timeoutError{}))
}

func TestStubEligibleTrueForDNSFailureAgainstLocalhost(t *testing.T) {
	c := &Client{localhost: true}
	dnsErr := &net.DNSError{Err: "no such host", Name: "local-runner.invalid", IsNotFound: true}
	assert.True(t, c.stubEligible(dnsErr))
}

func TestListTagsMasksConnectionRefusedAgainstLocalhost(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond)
	tags, err := c.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "local-stub", tags[0].Name)
}

func TestListTagsDoesNotMaskTimeoutAgainstLocalhost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 10*time.Millisecond)
	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())
}

func TestListTagsReturnsErrorOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEmbeddingsPostsPromptAndDecodesVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req EmbeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Prompt)
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Embedding: []float64{0.1, 0.2}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.Embeddings(context.Background(), EmbeddingsRequest{Model: "llama3", Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, resp.Embedding)
}

func TestChatForcesStreamFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Model:   req.Model,
			Message: ChatResponseMessage{Role: "assistant", Content: "hi"},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.Chat(context.Background(), ChatRequest{Model: "llama3", Stream: true})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Message.Content)
}

func TestStreamChatForcesStreamTrueAndReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		_, _ = w.Write([]byte(`{"done":false}` + "\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	body, err := c.StreamChat(context.Background(), ChatRequest{Model: "llama3", Stream: false})
	require.NoError(t, err)
	defer body.Close()
}

func TestStreamChatReturnsErrorOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.StreamChat(context.Background(), ChatRequest{Model: "llama3"})
	require.Error(t, err)
}
