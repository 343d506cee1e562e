package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/vietddude/faultline/internal/core/domain"
)

// captureHandler records every slog record it receives.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) last(t *testing.T) slog.Record {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) == 0 {
		t.Fatal("no records emitted")
	}
	return h.records[len(h.records)-1]
}

func sample(severity domain.Severity) *domain.CategorizedError {
	return &domain.CategorizedError{
		Category:         domain.CategoryNetwork,
		Severity:         severity,
		RecoveryAction:   domain.ActionRetry,
		UserMessage:      "connectivity issue",
		TechnicalDetails: "connection refused",
		Code:             "NETWORK_abc",
	}
}

func TestEmitter_DisabledConsoleIsNoop(t *testing.T) {
	h := &captureHandler{}
	em := NewEmitter(slog.New(h), Options{Console: false})

	em.Emit(sample(domain.SeverityCritical))

	if len(h.records) != 0 {
		t.Errorf("emitted %d records with console disabled", len(h.records))
	}
}

func TestEmitter_MinSeverityGate(t *testing.T) {
	h := &captureHandler{}
	em := NewEmitter(slog.New(h), Options{Console: true, MinSeverity: domain.SeverityHigh})

	em.Emit(sample(domain.SeverityMedium))
	if len(h.records) != 0 {
		t.Errorf("MEDIUM emitted below HIGH threshold")
	}

	em.Emit(sample(domain.SeverityHigh))
	if len(h.records) != 1 {
		t.Errorf("HIGH not emitted at HIGH threshold")
	}
}

func TestEmitter_SeverityToLevel(t *testing.T) {
	tests := []struct {
		severity domain.Severity
		level    slog.Level
	}{
		{domain.SeverityCritical, slog.LevelError},
		{domain.SeverityHigh, slog.LevelError},
		{domain.SeverityMedium, slog.LevelWarn},
		{domain.SeverityLow, slog.LevelInfo},
		{domain.SeverityInfo, slog.LevelInfo},
	}

	for _, tt := range tests {
		h := &captureHandler{}
		em := NewEmitter(slog.New(h), Options{Console: true})
		em.Emit(sample(tt.severity))
		if got := h.last(t).Level; got != tt.level {
			t.Errorf("severity %s logged at %v, want %v", tt.severity, got, tt.level)
		}
	}
}

func TestEmitter_StructuredRecordCarriesFields(t *testing.T) {
	h := &captureHandler{}
	em := NewEmitter(slog.New(h), Options{Console: true, Structured: true})

	em.Emit(sample(domain.SeverityMedium))

	r := h.last(t)
	fields := map[string]string{}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.String()
		return true
	})

	if fields["category"] != "NETWORK" {
		t.Errorf("category attr = %q, want NETWORK", fields["category"])
	}
	if fields["code"] != "NETWORK_abc" {
		t.Errorf("code attr = %q", fields["code"])
	}
	if fields["details"] != "connection refused" {
		t.Errorf("details attr = %q", fields["details"])
	}
}

func TestEmitter_FormattedLine(t *testing.T) {
	h := &captureHandler{}
	em := NewEmitter(slog.New(h), Options{Console: true, Structured: false})

	e := sample(domain.SeverityMedium)
	e.Context = "sync-op"
	em.Emit(e)

	msg := h.last(t).Message
	for _, want := range []string{"MEDIUM", "NETWORK", "NETWORK_abc", "connection refused", "sync-op"} {
		if !strings.Contains(msg, want) {
			t.Errorf("formatted line %q missing %q", msg, want)
		}
	}
}

func TestEmitter_IncludeStack(t *testing.T) {
	h := &captureHandler{}
	em := NewEmitter(slog.New(h), Options{Console: true, IncludeStack: true})

	e := sample(domain.SeverityMedium)
	e.Stack = "at doThing (thing.go:10)"
	em.Emit(e)

	if !strings.Contains(h.last(t).Message, "thing.go:10") {
		t.Error("stack text not included in formatted output")
	}
}
