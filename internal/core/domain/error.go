package domain

import (
	"strings"
	"time"
)

// Category is the coarse bucket for a failure's origin.
type Category string

const (
	CategoryNetwork    Category = "NETWORK"
	CategoryValidation Category = "VALIDATION"
	CategorySystem     Category = "SYSTEM"
	CategoryUser       Category = "USER"
	CategoryPlugin     Category = "PLUGIN"
	CategoryUnknown    Category = "UNKNOWN"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryNetwork,
	CategoryValidation,
	CategorySystem,
	CategoryUser,
	CategoryPlugin,
	CategoryUnknown,
}

// Severity is an ordered importance level. Ordering gates both logging
// thresholds and retry eligibility, so the numeric values matter.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists every severity from lowest to highest.
var Severities = []Severity{
	SeverityInfo,
	SeverityLow,
	SeverityMedium,
	SeverityHigh,
	SeverityCritical,
}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity name, so JSON maps keyed by severity
// serialize as names rather than numbers.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity maps a severity name (case-insensitive) to its value.
// Unrecognized names fall back to SeverityInfo so a bad config logs
// everything rather than nothing.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(s) {
	case "INFO":
		return SeverityInfo
	case "LOW":
		return SeverityLow
	case "MEDIUM":
		return SeverityMedium
	case "HIGH":
		return SeverityHigh
	case "CRITICAL":
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// RecoveryAction is the remediation suggested for a classified failure.
type RecoveryAction string

const (
	ActionRetry    RecoveryAction = "RETRY"
	ActionRefresh  RecoveryAction = "REFRESH"
	ActionValidate RecoveryAction = "VALIDATE"
	ActionContact  RecoveryAction = "CONTACT"
	ActionNone     RecoveryAction = "NONE"
)

// CategorizedError is the record produced for every raw failure entering
// the pipeline. Every field except TechnicalDetails and Context is always
// populated; an unmatched failure classifies as UNKNOWN rather than nil.
type CategorizedError struct {
	// Err is the original failure, preserved so callers can still match
	// on its concrete type after retry exhaustion.
	Err error

	Category       Category
	Severity       Severity
	RecoveryAction RecoveryAction

	// UserMessage is the human-readable text for the rule that matched.
	// TechnicalDetails carries the raw message, kept separate.
	UserMessage      string
	TechnicalDetails string

	// Context is an optional caller-supplied label, e.g. an operation name.
	Context string

	// Code is a deterministic short identifier derived from category and
	// message. Identical (category, message) pairs share a code; it is not
	// collision-free.
	Code string

	// Timestamp is the classification time, not any time embedded in the
	// original failure.
	Timestamp time.Time

	// Stack is the original failure's stack text, when it carries one.
	Stack string

	Metadata map[string]any
}

// Error implements the error interface on the wrapper itself.
func (c *CategorizedError) Error() string {
	return c.TechnicalDetails
}

// Unwrap exposes the original failure to errors.Is / errors.As.
func (c *CategorizedError) Unwrap() error {
	return c.Err
}

// StackTracer is implemented by errors that carry stack text. The
// classifier matches patterns against it and the logger can include it.
type StackTracer interface {
	StackTrace() string
}
