package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_NoKey(t *testing.T) {
	_, err := NewClient(context.Background(), "  ", "")
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Expected ErrNoCredentials, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Technology\n"}]}}]}`))
	}))
	defer mockServer.Close()

	client, err := NewClientWithBaseURL(context.Background(), "test-key", "", mockServer.URL)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	got, err := client.Generate(context.Background(), "Answer with a sector.", "Apple Inc", 20)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Technology" {
		t.Errorf("Expected trimmed reply \"Technology\", got %q", got)
	}
	if !strings.Contains(gotPath, DefaultModel+":generateContent") {
		t.Errorf("Expected default model in path, got %s", gotPath)
	}
	cfg, _ := gotBody["generationConfig"].(map[string]any)
	if cfg["maxOutputTokens"] != float64(20) {
		t.Errorf("Expected maxOutputTokens 20, got %v", cfg["maxOutputTokens"])
	}
}

func TestGenerate_ServerError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer mockServer.Close()

	client, err := NewClientWithBaseURL(context.Background(), "test-key", "gemini-test", mockServer.URL)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if _, err := client.Generate(context.Background(), "sys", "prompt", 10); err == nil {
		t.Fatal("Expected error from failing server")
	}
}
