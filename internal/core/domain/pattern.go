package domain

import "strings"

// Pattern is a classification rule: a matcher plus the categorization to
// apply when it matches. Matchers are unified behind a single function at
// construction time; there is no runtime branching between string and
// predicate rules.
type Pattern struct {
	// Name identifies the rule in logs and config errors.
	Name string

	// Match reports whether the rule applies to the failure. The stack
	// text is passed separately so substring rules can test it
	// independently of the message.
	Match func(err error, stack string) bool

	Category       Category
	Severity       Severity
	RecoveryAction RecoveryAction

	// UserMessage becomes the categorized error's user-facing text.
	UserMessage string
}

// SubstringPattern builds a rule that matches when any of the phrases
// occurs, case-insensitively, in the failure's message or its stack text.
func SubstringPattern(
	name string,
	phrases []string,
	category Category,
	severity Severity,
	action RecoveryAction,
	userMessage string,
) Pattern {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}

	return Pattern{
		Name: name,
		Match: func(err error, stack string) bool {
			msg := strings.ToLower(err.Error())
			st := strings.ToLower(stack)
			for _, p := range lowered {
				if strings.Contains(msg, p) {
					return true
				}
				if st != "" && strings.Contains(st, p) {
					return true
				}
			}
			return false
		},
		Category:       category,
		Severity:       severity,
		RecoveryAction: action,
		UserMessage:    userMessage,
	}
}

// PredicatePattern builds a rule from a caller predicate over the raw
// failure.
func PredicatePattern(
	name string,
	predicate func(err error) bool,
	category Category,
	severity Severity,
	action RecoveryAction,
	userMessage string,
) Pattern {
	return Pattern{
		Name: name,
		Match: func(err error, _ string) bool {
			return predicate(err)
		},
		Category:       category,
		Severity:       severity,
		RecoveryAction: action,
		UserMessage:    userMessage,
	}
}
