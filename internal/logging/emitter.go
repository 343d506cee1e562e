// Package logging emits classified failures through slog, gated by a
// minimum severity and mapped to slog levels.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Options controls emission.
type Options struct {
	// Console enables emission entirely; when false Emit is a no-op.
	Console bool
	// Structured selects attribute records over a single formatted line.
	Structured bool
	// MinSeverity drops entries strictly below it.
	MinSeverity domain.Severity
	// IncludeStack appends the failure's stack text when present.
	IncludeStack bool
}

// Emitter writes categorized errors to an injected slog logger. Severity
// chooses the slog level: CRITICAL and HIGH log at error, MEDIUM at warn,
// LOW and INFO at info.
type Emitter struct {
	logger *slog.Logger

	mu   sync.RWMutex
	opts Options
}

// NewEmitter creates an emitter over the given logger.
func NewEmitter(logger *slog.Logger, opts Options) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{logger: logger, opts: opts}
}

// SetOptions replaces the emission options.
func (em *Emitter) SetOptions(opts Options) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.opts = opts
}

// Level maps a severity to its slog level.
func Level(s domain.Severity) slog.Level {
	switch {
	case s >= domain.SeverityHigh:
		return slog.LevelError
	case s == domain.SeverityMedium:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Emit logs the categorized error if console logging is enabled and the
// severity clears the configured minimum.
func (em *Emitter) Emit(e *domain.CategorizedError) {
	em.mu.RLock()
	opts := em.opts
	em.mu.RUnlock()

	if !opts.Console || e == nil {
		return
	}
	if e.Severity < opts.MinSeverity {
		return
	}

	level := Level(e.Severity)

	if opts.Structured {
		attrs := []any{
			"timestamp", e.Timestamp.Format(time.RFC3339Nano),
			"severity", e.Severity.String(),
			"category", string(e.Category),
			"code", e.Code,
			"message", e.UserMessage,
			"details", e.TechnicalDetails,
			"action", string(e.RecoveryAction),
		}
		if e.Context != "" {
			attrs = append(attrs, "context", e.Context)
		}
		if opts.IncludeStack && e.Stack != "" {
			attrs = append(attrs, "stack", e.Stack)
		}
		em.logger.Log(context.Background(), level, "classified error", attrs...)
		return
	}

	line := fmt.Sprintf("[%s] %s/%s %s: %s",
		e.Severity, e.Category, e.Code, e.RecoveryAction, e.TechnicalDetails)
	if e.Context != "" {
		line += " (" + e.Context + ")"
	}
	if opts.IncludeStack && e.Stack != "" {
		line += "\n" + e.Stack
	}
	em.logger.Log(context.Background(), level, line)
}
