// Package classify matches raw failures against an ordered rule registry
// and produces categorized error records. Classification is pure: the same
// (message, context) always yields the same category, severity, recovery
// action and code.
package classify

import (
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Classifier turns raw failures into CategorizedError records using a
// pattern registry.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier over the given registry.
func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Registry exposes the underlying rule registry.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// Classify matches the failure against extra rules, then custom rules,
// then the built-ins, first match winning. An unmatched failure yields
// UNKNOWN / MEDIUM / RETRY rather than a nil result.
func (c *Classifier) Classify(err error, label string, extra ...domain.Pattern) *domain.CategorizedError {
	stack := stackOf(err)

	category := domain.CategoryUnknown
	severity := domain.SeverityMedium
	action := domain.ActionRetry
	userMessage := unknownMessage

	if p, ok := c.registry.Match(err, stack, extra); ok {
		category = p.Category
		severity = p.Severity
		action = p.RecoveryAction
		userMessage = p.UserMessage
	}

	now := time.Now()
	message := err.Error()

	metadata := map[string]any{
		"timestamp": now.Format(time.RFC3339Nano),
	}
	if stack != "" {
		metadata["stack"] = stack
	}

	return &domain.CategorizedError{
		Err:              err,
		Category:         category,
		Severity:         severity,
		RecoveryAction:   action,
		UserMessage:      userMessage,
		TechnicalDetails: message,
		Context:          label,
		Code:             ErrorCode(category, message),
		Timestamp:        now,
		Stack:            stack,
		Metadata:         metadata,
	}
}

func stackOf(err error) string {
	if st, ok := err.(domain.StackTracer); ok {
		return st.StackTrace()
	}
	return ""
}
