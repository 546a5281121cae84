package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

func chatServer(t *testing.T, content string, calls *atomic.Int32, prompts chan<- string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}

		calls.Add(1)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if prompts != nil && len(req.Messages) > 0 {
			prompts <- req.Messages[len(req.Messages)-1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestOpenAIGeneratorAdapter_GenerateForDeclaration(t *testing.T) {
	var calls atomic.Int32

	prompts := make(chan string, 1)
	srv := chatServer(t, "Here you go:\n```js\ntest('add', () => {});\n```\n", &calls, prompts)

	adapter := NewOpenAIGeneratorAdapter(GeneratorConfig{Endpoint: srv.URL + "/v1", Model: "codellama", Timeout: time.Second})

	code, err := adapter.GenerateForDeclaration(context.Background(), DeclarationRequest{
		FilePath:    "src/math.js",
		Declaration: m.NewDeclaration(m.KindFunction, "add", m.NewLineRange(1, 3)),
		Snippet:     "function add(a, b) { return a + b; }",
	})
	require.NoError(t, err)

	assert.Equal(t, "test('add', () => {});", code)
	assert.Equal(t, int32(1), calls.Load())

	prompt := <-prompts
	assert.Contains(t, prompt, "File: src/math.js")
	assert.Contains(t, prompt, "/* TEST_FOR: add */")
	assert.Contains(t, prompt, "function add(a, b)")
}

func TestOpenAIGeneratorAdapter_GenerateMutation(t *testing.T) {
	var calls atomic.Int32

	prompts := make(chan string, 1)
	srv := chatServer(t, "test('branch', () => {});", &calls, prompts)

	adapter := NewOpenAIGeneratorAdapter(GeneratorConfig{Endpoint: srv.URL + "/v1/", Model: "codellama"})

	code, err := adapter.GenerateMutation(context.Background(), MutationRequest{FilePath: "src/math.js", CoveragePercent: 42.5})
	require.NoError(t, err)

	assert.Equal(t, "test('branch', () => {});", code)

	prompt := <-prompts
	assert.Contains(t, prompt, "Current coverage: 42.50%")
	assert.Contains(t, prompt, "N/A")
	assert.Contains(t, prompt, "/* TEST_FOR: mutation */")
}

func TestOpenAIGeneratorAdapter_EmptyResponse(t *testing.T) {
	var calls atomic.Int32

	srv := chatServer(t, "   ", &calls, nil)
	adapter := NewOpenAIGeneratorAdapter(GeneratorConfig{Endpoint: srv.URL + "/v1", Model: "codellama"})

	_, err := adapter.GenerateMutation(context.Background(), MutationRequest{FilePath: "src/a.js"})
	assert.ErrorIs(t, err, ErrEmptyGeneration)
}

func TestOpenAIGeneratorAdapter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	adapter := NewOpenAIGeneratorAdapter(GeneratorConfig{Endpoint: srv.URL + "/v1", Model: "codellama"})

	_, err := adapter.GenerateMutation(context.Background(), MutationRequest{FilePath: "src/a.js"})
	assert.Error(t, err)
}

func TestOpenAIGeneratorAdapter_CancelledContext(t *testing.T) {
	var calls atomic.Int32

	srv := chatServer(t, "code", &calls, nil)
	adapter := NewOpenAIGeneratorAdapter(GeneratorConfig{Endpoint: srv.URL + "/v1", Model: "codellama", Rate: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.GenerateMutation(ctx, MutationRequest{FilePath: "src/a.js"})
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestDeclarationPrompt_Anonymous(t *testing.T) {
	prompt, err := DeclarationPrompt(DeclarationRequest{
		FilePath:    "pkg/calc.go",
		Declaration: m.NewDeclaration(m.KindClass, "", m.NewLineRange(1, 2)),
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Go testing package")
	assert.Contains(t, prompt, "Declaration: class (anonymous)")
	assert.Contains(t, prompt, "/* TEST_FOR: class */")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  test();\n", "test();"},
		{"fenced with language", "```javascript\ntest();\n```", "test();"},
		{"fenced without language", "intro\n```\na();\n```\noutro", "a();"},
		{"multiple blocks", "```js\na();\n```\ntext\n```js\nb();\n```", "a();\n\nb();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}
