package docdex

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNew_NoBaseURL(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error when no base URL provided")
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"://bad", "localhost:8080", "/just/a/path"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:8080/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithAPIKey("secret").apply(cfg)
	if cfg.apiKey != "secret" {
		t.Errorf("apiKey = %q, want secret", cfg.apiKey)
	}

	hc := &http.Client{}
	WithHTTPClient(hc).apply(cfg)
	if cfg.httpc != hc {
		t.Error("httpc not applied")
	}

	WithTimeout(5 * time.Second).apply(cfg)
	if cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.timeout)
	}
}

func TestAPIError_SentinelMapping(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"unauthorized", ErrUnauthorized},
		{"chunk_not_found", ErrChunkNotFound},
		{"unsupported_file", ErrUnsupportedFile},
		{"empty_document", ErrEmptyDocument},
		{"rate_limited", ErrRateLimited},
		{"embedding_quota_exceeded", ErrEmbeddingQuotaExceeded},
		{"embedding_provider_error", ErrEmbeddingProviderError},
	}

	for _, tc := range cases {
		err := &APIError{Status: 400, Code: tc.code, Message: "x"}
		if !errors.Is(err, tc.want) {
			t.Errorf("code %s: errors.Is did not match sentinel", tc.code)
		}
	}
}

func TestAPIError_UnknownCode(t *testing.T) {
	err := &APIError{Status: 500, Code: "internal_error", Message: "boom"}
	if errors.Is(err, ErrChunkNotFound) {
		t.Error("unexpected sentinel match for internal_error")
	}
	if got := err.Error(); !strings.Contains(got, "boom") || !strings.Contains(got, "500") {
		t.Errorf("Error() = %q, want message and status included", got)
	}
}

func TestDecodeError_Envelope(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body: io.NopCloser(strings.NewReader(
			`{"error":{"code":"chunk_not_found","message":"chunk not found"}}`,
		)),
	}

	err := decodeError(resp)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != "chunk_not_found" {
		t.Errorf("Code = %q, want chunk_not_found", apiErr.Code)
	}
	if !errors.Is(err, ErrChunkNotFound) {
		t.Error("errors.Is(err, ErrChunkNotFound) = false")
	}
}

func TestDecodeError_NonJSONBody(t *testing.T) {
	// Proxies answer with plain text; keep it as the message.
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Status:     "502 Bad Gateway",
		Body:       io.NopCloser(strings.NewReader("upstream timed out")),
	}

	var apiErr *APIError
	if !errors.As(decodeError(resp), &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.Message != "upstream timed out" {
		t.Errorf("Message = %q, want raw body", apiErr.Message)
	}
	if apiErr.Code != "" {
		t.Errorf("Code = %q, want empty", apiErr.Code)
	}
}

func TestDecodeError_EmptyBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Status:     "503 Service Unavailable",
		Body:       io.NopCloser(strings.NewReader("")),
	}

	var apiErr *APIError
	if !errors.As(decodeError(resp), &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.Message != "503 Service Unavailable" {
		t.Errorf("Message = %q, want http status text", apiErr.Message)
	}
}
