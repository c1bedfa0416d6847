package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-playground/assert/v2"
	openaioption "github.com/openai/openai-go/option"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"sentiment\":\"neutral\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL+"/v1beta/", srv.Client())
	out, err := c.Generate(context.Background(), "sys", "hello")

	assert.Equal(t, nil, err)
	assert.Equal(t, `{"sentiment":"neutral"}`, out)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "hello", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, "sys", gotBody.SystemInstruction.Parts[0].Text)
}

func TestGeminiGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL, srv.Client())
	_, err := c.Generate(context.Background(), "", "hello")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "quota exceeded"))
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", srv.URL, srv.Client())
	_, err := c.Generate(context.Background(), "", "hello")

	assert.NotEqual(t, nil, err)
}

func TestOpenAIGenerate(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"sentiment\":\"positive\"}"}}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", openaioption.WithBaseURL(srv.URL), openaioption.WithMaxRetries(0))
	out, err := c.Generate(context.Background(), "sys", "headline")

	assert.Equal(t, nil, err)
	assert.Equal(t, `{"sentiment":"positive"}`, out)
	assert.Equal(t, true, strings.Contains(gotBody, `"gpt-4o-mini"`))
	assert.Equal(t, "gpt-4o-mini", c.ModelName())
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "{\"sentiment\":\"negative\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", anthropicoption.WithBaseURL(srv.URL), anthropicoption.WithMaxRetries(0))
	out, err := c.Generate(context.Background(), "sys", "headline")

	assert.Equal(t, nil, err)
	assert.Equal(t, `{"sentiment":"negative"}`, out)
}
