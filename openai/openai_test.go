package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// server records request bodies by path suffix and replies with canned JSON.
type server struct {
	mu     sync.Mutex
	bodies map[string]map[string]any
	status int
	reply  string
}

func newServer(t *testing.T, status int, reply string) (*server, string) {
	t.Helper()

	s := &server{bodies: make(map[string]map[string]any), status: status, reply: reply}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.bodies[r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]] = body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.reply))
	}))
	t.Cleanup(ts.Close)
	return s, ts.URL
}

func (s *server) body(name string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[name]
}

func newClient(t *testing.T, baseURL string) *openai.Embedder {
	t.Helper()

	client, err := openai.NewClient(openai.Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return openai.NewEmbedder(client)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := openai.NewClient(openai.Config{})

	assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("returns float32 vector and sends model", func(t *testing.T) {
		t.Parallel()

		srv, url := newServer(t, http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],"model":"text-embedding-3-large","usage":{"prompt_tokens":2,"total_tokens":2}}`)
		e := newClient(t, url)

		vec, err := e.Embed(context.Background(), "hello world")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
		body := srv.body("embeddings")
		assert.Equal(t, "text-embedding-3-large", body["model"])
		assert.Equal(t, "hello world", body["input"])
		assert.NotContains(t, body, "dimensions")
	})

	t.Run("sends dimensions when set", func(t *testing.T) {
		t.Parallel()

		srv, url := newServer(t, http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[1,0]}],"model":"m","usage":{"prompt_tokens":1,"total_tokens":1}}`)
		e := newClient(t, url)
		e.Dimensions = 2

		_, err := e.Embed(context.Background(), "x")

		require.NoError(t, err)
		assert.InDelta(t, 2, srv.body("embeddings")["dimensions"], 0)
	})

	t.Run("rejects empty text without calling the API", func(t *testing.T) {
		t.Parallel()

		srv, url := newServer(t, http.StatusOK, `{}`)
		e := newClient(t, url)

		_, err := e.Embed(context.Background(), "  ")

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
		assert.Nil(t, srv.body("embeddings"))
	})

	t.Run("empty data is an internal error", func(t *testing.T) {
		t.Parallel()

		_, url := newServer(t, http.StatusOK, `{"object":"list","data":[],"model":"m","usage":{"prompt_tokens":1,"total_tokens":1}}`)

		_, err := newClient(t, url).Embed(context.Background(), "x")

		assert.Equal(t, docrag.EINTERNAL, docrag.ErrorCode(err))
	})

	t.Run("unauthorized maps to config error", func(t *testing.T) {
		t.Parallel()

		_, url := newServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`)

		_, err := newClient(t, url).Embed(context.Background(), "x")

		assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
	})

	t.Run("bad request maps to invalid", func(t *testing.T) {
		t.Parallel()

		_, url := newServer(t, http.StatusBadRequest, `{"error":{"message":"input too long","type":"invalid_request_error","param":"input","code":null}}`)

		_, err := newClient(t, url).Embed(context.Background(), "x")

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
		assert.Contains(t, docrag.ErrorMessage(err), "input too long")
	})
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns first choice at zero temperature", func(t *testing.T) {
		t.Parallel()

		srv, url := newServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","logprobs":null,"message":{"role":"assistant","content":"HTMX is a library.","refusal":null}}]}`)
		client, err := openai.NewClient(openai.Config{APIKey: "k", BaseURL: url})
		require.NoError(t, err)

		answer, err := openai.NewGenerator(client).Generate(context.Background(), "What is HTMX?")

		require.NoError(t, err)
		assert.Equal(t, "HTMX is a library.", answer)
		body := srv.body("completions")
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Contains(t, body, "temperature")
		assert.InDelta(t, 0, body["temperature"], 0)
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	})

	t.Run("no choices is an internal error", func(t *testing.T) {
		t.Parallel()

		_, url := newServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`)
		client, err := openai.NewClient(openai.Config{APIKey: "k", BaseURL: url})
		require.NoError(t, err)

		_, err = openai.NewGenerator(client).Generate(context.Background(), "q")

		assert.Equal(t, docrag.EINTERNAL, docrag.ErrorCode(err))
	})
}
