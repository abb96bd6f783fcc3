package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/veritrust/classifier/internal/config"
	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/logging"
)

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		BaseURL:           baseURL,
		Model:             "mistral-7b-instruct-v0.2",
		Temperature:       0.3,
		MaxTokens:         80,
		Timeout:           2 * time.Second,
		RequestsPerSecond: 100,
		BreakerFailures:   5,
		BreakerReset:      time.Minute,
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Review:") {
			t.Error("expected prompt embedding the review")
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClassifyReview_ParsesWellFormedResponse(t *testing.T) {
	srv := completionServer(t, "Classification: Real\nExplanation: Mentions a specific defect and timeline.")
	defer srv.Close()

	client := New(testConfig(srv.URL), logging.NewNop())
	verdict, err := client.ClassifyReview(context.Background(), "the blade loosened after ten uses")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Classification != domain.ClassificationReal {
		t.Errorf("expected Real, got %s", verdict.Classification)
	}
	if verdict.Explanation != "Mentions a specific defect and timeline." {
		t.Errorf("unexpected explanation: %s", verdict.Explanation)
	}
}

func TestClassifyReview_CaseInsensitiveTokens(t *testing.T) {
	srv := completionServer(t, "classification: FAKE\nexplanation: pure hype")
	defer srv.Close()

	client := New(testConfig(srv.URL), logging.NewNop())
	verdict, err := client.ClassifyReview(context.Background(), "amazing product")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Classification != domain.ClassificationFake {
		t.Errorf("expected Fake, got %s", verdict.Classification)
	}
	if verdict.Explanation != "pure hype" {
		t.Errorf("unexpected explanation: %s", verdict.Explanation)
	}
}

func TestClassifyReview_UnparseableContentFailsClosed(t *testing.T) {
	srv := completionServer(t, "I think this review seems fine to me.")
	defer srv.Close()

	client := New(testConfig(srv.URL), logging.NewNop())
	verdict, err := client.ClassifyReview(context.Background(), "some review text")
	if err != nil {
		t.Fatalf("parse failures must not error: %v", err)
	}
	if verdict.Classification != domain.ClassificationFake {
		t.Errorf("expected fail-closed Fake, got %s", verdict.Classification)
	}
	if verdict.Explanation != fallbackExplanation {
		t.Errorf("expected %q, got %q", fallbackExplanation, verdict.Explanation)
	}
}

func TestClassifyReview_NonSuccessStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), logging.NewNop())
	verdict, err := client.ClassifyReview(context.Background(), "some review text")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if verdict != nil {
		t.Errorf("transport failure must not yield a verdict, got %+v", verdict)
	}
}

func TestClassifyReview_EmptyChoicesIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), logging.NewNop())
	if _, err := client.ClassifyReview(context.Background(), "some review text"); err == nil {
		t.Fatal("expected error for response with no choices")
	}
}

func TestClassifyReview_ZeroRateConfigStillServes(t *testing.T) {
	srv := completionServer(t, "Classification: Real\nExplanation: Specific and balanced.")
	defer srv.Close()

	// Config built by hand with no rate set; requests must not be
	// starved by a zero-burst limiter.
	cfg := config.LLMConfig{
		BaseURL: srv.URL,
		Model:   "mistral-7b-instruct-v0.2",
		Timeout: 2 * time.Second,
	}
	client := New(cfg, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	verdict, err := client.ClassifyReview(ctx, "the blade loosened after ten uses")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Classification != domain.ClassificationReal {
		t.Errorf("expected Real, got %s", verdict.Classification)
	}
}

func TestClassifyReview_UnreachableServiceIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	cfg := testConfig(srv.URL)
	client := New(cfg, logging.NewNop())
	verdict, err := client.ClassifyReview(context.Background(), "some review text")
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
	if verdict != nil {
		t.Errorf("expected no verdict, got %+v", verdict)
	}
}
