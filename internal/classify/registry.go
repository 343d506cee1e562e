package classify

import (
	"sync"

	"github.com/vietddude/faultline/internal/core/domain"
)

// builtinPatterns is the fixed-priority rule table. Order is significant:
// a message satisfying several rules is classified by the first one, so
// reordering entries changes behavior. Caller-supplied rules are always
// consulted before these.
var builtinPatterns = []domain.Pattern{
	domain.SubstringPattern(
		"network",
		[]string{"network", "timeout", "timed out", "connection", "fetch failed", "econnrefused", "unreachable"},
		domain.CategoryNetwork,
		domain.SeverityMedium,
		domain.ActionRetry,
		"A connectivity issue interrupted the operation. Check your connection and try again.",
	),
	domain.SubstringPattern(
		"validation",
		[]string{"validation", "invalid input", "invalid value", "required field", "must be", "out of range"},
		domain.CategoryValidation,
		domain.SeverityMedium,
		domain.ActionValidate,
		"Some of the provided input is not valid.",
	),
	domain.SubstringPattern(
		"resource-limit",
		[]string{"resource exhausted", "quota", "rate limit", "too many requests", "limit exceeded"},
		domain.CategorySystem,
		domain.SeverityHigh,
		domain.ActionRetry,
		"A resource limit was hit. The operation will be retried shortly.",
	),
	domain.SubstringPattern(
		"permission",
		[]string{"permission", "unauthorized", "forbidden", "access denied", "not allowed"},
		domain.CategorySystem,
		domain.SeverityHigh,
		domain.ActionContact,
		"You do not have permission to perform this operation.",
	),
	domain.SubstringPattern(
		"missing-resource",
		[]string{"not found", "missing file", "no such file", "no such path", "does not exist"},
		domain.CategorySystem,
		domain.SeverityMedium,
		domain.ActionRefresh,
		"A required resource could not be found. Refresh and try again.",
	),
	domain.SubstringPattern(
		"user-cancelled",
		[]string{"cancelled by user", "canceled by user", "user cancelled", "user canceled", "user aborted"},
		domain.CategoryUser,
		domain.SeverityLow,
		domain.ActionNone,
		"The operation was cancelled.",
	),
	domain.SubstringPattern(
		"host-api",
		[]string{"host api", "api error", "internal host error", "plugin api"},
		domain.CategoryPlugin,
		domain.SeverityHigh,
		domain.ActionRetry,
		"The host application reported an internal error.",
	),
	domain.SubstringPattern(
		"host-selection",
		[]string{"selection", "no node", "node is locked", "node state", "nothing selected"},
		domain.CategoryUser,
		domain.SeverityLow,
		domain.ActionValidate,
		"Check the current selection and try again.",
	),
}

// unknownMessage is applied when no rule matches.
const unknownMessage = "Something went wrong. The operation will be retried."

// Registry holds classification rules in evaluation order: custom rules
// first, in registration order, then the built-ins.
type Registry struct {
	mu     sync.RWMutex
	custom []domain.Pattern
}

// NewRegistry builds a registry with the given custom rules ahead of the
// built-in table.
func NewRegistry(custom ...domain.Pattern) *Registry {
	return &Registry{custom: custom}
}

// SetCustom replaces the custom rule set.
func (r *Registry) SetCustom(patterns []domain.Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = patterns
}

// Match returns the first rule matching the failure, trying extra rules
// first, then the registry's custom rules, then the built-ins. The second
// return is false when nothing matched.
func (r *Registry) Match(err error, stack string, extra []domain.Pattern) (domain.Pattern, bool) {
	for _, p := range extra {
		if p.Match(err, stack) {
			return p, true
		}
	}

	r.mu.RLock()
	custom := r.custom
	r.mu.RUnlock()

	for _, p := range custom {
		if p.Match(err, stack) {
			return p, true
		}
	}
	for _, p := range builtinPatterns {
		if p.Match(err, stack) {
			return p, true
		}
	}
	return domain.Pattern{}, false
}
