package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

func sample() *domain.CategorizedError {
	return &domain.CategorizedError{
		Category:         domain.CategoryNetwork,
		Severity:         domain.SeverityHigh,
		RecoveryAction:   domain.ActionRetry,
		UserMessage:      "connectivity issue",
		TechnicalDetails: "connection refused",
		Code:             "NETWORK_abc",
		Timestamp:        time.Now(),
	}
}

func TestReporter_InactiveWithoutEndpointAndKey(t *testing.T) {
	tests := []Options{
		{Enabled: false, Endpoint: "https://x", APIKey: "k"},
		{Enabled: true, Endpoint: "", APIKey: "k"},
		{Enabled: true, Endpoint: "https://x", APIKey: ""},
	}
	for _, opts := range tests {
		if NewReporter(opts).Active() {
			t.Errorf("reporter active with opts %+v", opts)
		}
	}
}

func TestReporter_PostsPayload(t *testing.T) {
	var got Payload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	r := NewReporter(Options{
		Enabled:                 true,
		Endpoint:                srv.URL,
		APIKey:                  "secret",
		IncludeUserData:         true,
		IncludeTechnicalDetails: true,
	})

	if err := r.Report(context.Background(), sample()); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if auth != "Bearer secret" {
		t.Errorf("authorization header = %q", auth)
	}
	if got.Category != "NETWORK" || got.Code != "NETWORK_abc" {
		t.Errorf("payload = %+v", got)
	}
	if got.EventID == "" {
		t.Error("payload missing event id")
	}
	if got.Message != "connectivity issue" || got.Details != "connection refused" {
		t.Errorf("payload not carrying user data / details: %+v", got)
	}
}

func TestReporter_Redaction(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	r := NewReporter(Options{Enabled: true, Endpoint: srv.URL, APIKey: "k"})
	if err := r.Report(context.Background(), sample()); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if got.Message != "" || got.Details != "" {
		t.Errorf("redacted payload leaked data: %+v", got)
	}
}

func TestReporter_RejectedStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewReporter(Options{Enabled: true, Endpoint: srv.URL, APIKey: "k"})
	if err := r.Report(context.Background(), sample()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestReporter_InactiveIsNoop(t *testing.T) {
	r := NewReporter(Options{})
	if err := r.Report(context.Background(), sample()); err != nil {
		t.Errorf("inactive reporter returned error: %v", err)
	}
}
