package classify

import (
	"errors"
	"strings"
	"testing"

	"github.com/vietddude/faultline/internal/core/domain"
)

func TestClassify_BuiltinRules(t *testing.T) {
	c := NewClassifier(NewRegistry())

	tests := []struct {
		msg      string
		category domain.Category
		severity domain.Severity
		action   domain.RecoveryAction
	}{
		{"Network request failed", domain.CategoryNetwork, domain.SeverityMedium, domain.ActionRetry},
		{"connection reset by peer", domain.CategoryNetwork, domain.SeverityMedium, domain.ActionRetry},
		{"request timed out after 30s", domain.CategoryNetwork, domain.SeverityMedium, domain.ActionRetry},
		{"validation failed for field x", domain.CategoryValidation, domain.SeverityMedium, domain.ActionValidate},
		{"required field missing: name", domain.CategoryValidation, domain.SeverityMedium, domain.ActionValidate},
		{"quota exceeded for project", domain.CategorySystem, domain.SeverityHigh, domain.ActionRetry},
		{"429 too many requests", domain.CategorySystem, domain.SeverityHigh, domain.ActionRetry},
		{"permission denied", domain.CategorySystem, domain.SeverityHigh, domain.ActionContact},
		{"403 Forbidden", domain.CategorySystem, domain.SeverityHigh, domain.ActionContact},
		{"style not found", domain.CategorySystem, domain.SeverityMedium, domain.ActionRefresh},
		{"operation was cancelled by user", domain.CategoryUser, domain.SeverityLow, domain.ActionNone},
		{"host api error: internal failure", domain.CategoryPlugin, domain.SeverityHigh, domain.ActionRetry},
		{"nothing selected on the page", domain.CategoryUser, domain.SeverityLow, domain.ActionValidate},
	}

	for _, tt := range tests {
		got := c.Classify(errors.New(tt.msg), "")
		if got.Category != tt.category {
			t.Errorf("Classify(%q) category = %s, want %s", tt.msg, got.Category, tt.category)
		}
		if got.Severity != tt.severity {
			t.Errorf("Classify(%q) severity = %s, want %s", tt.msg, got.Severity, tt.severity)
		}
		if got.RecoveryAction != tt.action {
			t.Errorf("Classify(%q) action = %s, want %s", tt.msg, got.RecoveryAction, tt.action)
		}
	}
}

func TestClassify_NetworkUserMessageMentionsConnectivity(t *testing.T) {
	c := NewClassifier(NewRegistry())

	got := c.Classify(errors.New("Network request failed"), "sync")
	if !strings.Contains(strings.ToLower(got.UserMessage), "connectivity") {
		t.Errorf("user message %q does not mention connectivity", got.UserMessage)
	}
	if got.Context != "sync" {
		t.Errorf("context = %q, want %q", got.Context, "sync")
	}
}

func TestClassify_UnmatchedFallsBackToUnknown(t *testing.T) {
	c := NewClassifier(NewRegistry())

	got := c.Classify(errors.New("zorp blibble"), "")
	if got.Category != domain.CategoryUnknown {
		t.Errorf("category = %s, want UNKNOWN", got.Category)
	}
	if got.Severity != domain.SeverityMedium {
		t.Errorf("severity = %s, want MEDIUM", got.Severity)
	}
	if got.RecoveryAction != domain.ActionRetry {
		t.Errorf("action = %s, want RETRY", got.RecoveryAction)
	}
	if got.UserMessage == "" {
		t.Error("user message is empty")
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := NewClassifier(NewRegistry())

	// "network timeout exceeded quota" satisfies both the network rule
	// and the resource-limit rule; the network rule is declared first.
	got := c.Classify(errors.New("network timeout exceeded quota"), "")
	if got.Category != domain.CategoryNetwork {
		t.Errorf("category = %s, want NETWORK (earlier rule)", got.Category)
	}
}

func TestClassify_ExtraPatternsBeatBuiltins(t *testing.T) {
	c := NewClassifier(NewRegistry())

	custom := domain.SubstringPattern(
		"custom-network",
		[]string{"network"},
		domain.CategoryPlugin,
		domain.SeverityCritical,
		domain.ActionContact,
		"custom rule matched",
	)

	got := c.Classify(errors.New("network request failed"), "", custom)
	if got.Category != domain.CategoryPlugin {
		t.Errorf("category = %s, want PLUGIN (custom rule)", got.Category)
	}
	if got.Severity != domain.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", got.Severity)
	}
}

func TestClassify_RegistryCustomRulesBeforeBuiltins(t *testing.T) {
	custom := domain.PredicatePattern(
		"always",
		func(err error) bool { return strings.Contains(err.Error(), "special") },
		domain.CategorySystem,
		domain.SeverityCritical,
		domain.ActionNone,
		"special failure",
	)
	c := NewClassifier(NewRegistry(custom))

	got := c.Classify(errors.New("special network failure"), "")
	if got.Category != domain.CategorySystem {
		t.Errorf("category = %s, want SYSTEM (registry custom rule)", got.Category)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(NewRegistry())

	a := c.Classify(errors.New("connection refused"), "op")
	b := c.Classify(errors.New("connection refused"), "op")

	if a.Category != b.Category || a.Severity != b.Severity ||
		a.RecoveryAction != b.RecoveryAction || a.Code != b.Code {
		t.Errorf("classification not deterministic: %+v vs %+v", a, b)
	}
}

type stackErr struct {
	msg   string
	stack string
}

func (e *stackErr) Error() string      { return e.msg }
func (e *stackErr) StackTrace() string { return e.stack }

func TestClassify_MatchesStackText(t *testing.T) {
	c := NewClassifier(NewRegistry())

	err := &stackErr{
		msg:   "boom",
		stack: "at fetchData (network/client.go:42)\nconnection refused",
	}

	got := c.Classify(err, "")
	if got.Category != domain.CategoryNetwork {
		t.Errorf("category = %s, want NETWORK via stack text", got.Category)
	}
	if got.Metadata["stack"] != err.stack {
		t.Errorf("metadata stack = %v, want original stack", got.Metadata["stack"])
	}
}

func TestClassify_MetadataHasTimestamp(t *testing.T) {
	c := NewClassifier(NewRegistry())

	got := c.Classify(errors.New("whatever"), "")
	if _, ok := got.Metadata["timestamp"]; !ok {
		t.Error("metadata missing timestamp")
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp is zero")
	}
}
