package together

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cv-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "test-model")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL
	client.httpClient = &http.Client{Timeout: 5 * time.Second}
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	var gotReq chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"fullName":"Jane"}`}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	})

	content, err := client.Complete(context.Background(),
		[]llm.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "text"}},
		llm.Params{Temperature: 0.1, TopP: 0.9, MaxTokens: 2000},
	)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != `{"fullName":"Jane"}` {
		t.Fatalf("unexpected content: %s", content)
	}

	if gotReq.Model != "test-model" {
		t.Fatalf("unexpected model: %s", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
	if gotReq.Temperature != 0.1 || gotReq.TopP != 0.9 || gotReq.MaxTokens != 2000 {
		t.Fatalf("unexpected params: %+v", gotReq)
	}
}

func TestCompleteAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	})

	_, err := client.Complete(context.Background(), nil, llm.Params{})
	if !errors.Is(err, llm.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCompleteNon2xxWithoutErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	})

	_, err := client.Complete(context.Background(), nil, llm.Params{})
	if !errors.Is(err, llm.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCompleteMissingChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), nil, llm.Params{})
	if !errors.Is(err, llm.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}
