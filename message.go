package faultline

import "strings"

// recovery-action hint sentences appended to user messages.
var actionHints = map[RecoveryAction]string{
	ActionRetry:    "Please try again in a moment.",
	ActionRefresh:  "Please refresh and try again.",
	ActionValidate: "Please check your input and try again.",
	ActionContact:  "If the problem persists, contact support.",
}

// CreateUserMessage renders a categorized error for end users: the rule's
// user message, a recovery hint unless the action is NONE, and the error
// code when present.
func CreateUserMessage(e *CategorizedError) string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.UserMessage)

	if hint, ok := actionHints[e.RecoveryAction]; ok && e.RecoveryAction != ActionNone {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(hint)
	}

	if e.Code != "" {
		b.WriteString(" (")
		b.WriteString(e.Code)
		b.WriteString(")")
	}

	return b.String()
}
