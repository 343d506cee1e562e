// Package faultline classifies runtime failures into an actionable
// taxonomy and drives a resilient retry policy on top of it. Raw failures
// are matched against an ordered rule registry, counted, logged above a
// severity threshold, optionally forwarded to an external sink, and
// delivered to registered listeners; the retry orchestrator uses the
// classification to decide whether and when to run an operation again.
package faultline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/faultline/internal/classify"
	"github.com/vietddude/faultline/internal/core/config"
	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/events"
	"github.com/vietddude/faultline/internal/logging"
	"github.com/vietddude/faultline/internal/metrics"
	"github.com/vietddude/faultline/internal/report"
	"github.com/vietddude/faultline/internal/stats"
)

// Re-exported domain types, so callers only import this package.
type (
	Category         = domain.Category
	Severity         = domain.Severity
	RecoveryAction   = domain.RecoveryAction
	CategorizedError = domain.CategorizedError
	Pattern          = domain.Pattern
	Stats            = domain.Stats
	Listener         = events.Listener
)

const (
	CategoryNetwork    = domain.CategoryNetwork
	CategoryValidation = domain.CategoryValidation
	CategorySystem     = domain.CategorySystem
	CategoryUser       = domain.CategoryUser
	CategoryPlugin     = domain.CategoryPlugin
	CategoryUnknown    = domain.CategoryUnknown

	SeverityInfo     = domain.SeverityInfo
	SeverityLow      = domain.SeverityLow
	SeverityMedium   = domain.SeverityMedium
	SeverityHigh     = domain.SeverityHigh
	SeverityCritical = domain.SeverityCritical

	ActionRetry    = domain.ActionRetry
	ActionRefresh  = domain.ActionRefresh
	ActionValidate = domain.ActionValidate
	ActionContact  = domain.ActionContact
	ActionNone     = domain.ActionNone
)

// SubstringPattern and PredicatePattern build caller-supplied rules.
var (
	SubstringPattern = domain.SubstringPattern
	PredicatePattern = domain.PredicatePattern
)

// ListenerFunc wraps a function in a comparable Listener.
var ListenerFunc = events.ListenerFunc

// Operation is a retryable unit of work. It must honor ctx cancellation.
type Operation func(ctx context.Context) (any, error)

// UseDefaultRetries selects the configured default retry budget in
// HandleWithRetry.
const UseDefaultRetries = -1

// Handler is the top-level facade: classifier, stats tracker, listener
// hub, log emitter, external reporter and retry orchestrator wired
// together. Construct one per process (or per subsystem) and pass it
// explicitly; there is no package-level singleton.
type Handler struct {
	logger     *slog.Logger
	classifier *classify.Classifier
	tracker    *stats.Tracker
	hub        *events.Hub
	emitter    *logging.Emitter
	reporter   *report.Reporter

	mu  sync.RWMutex
	cfg config.Config

	// sleep waits between attempts; tests substitute it.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a handler from the given configuration. A nil config uses
// defaults; a nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conf := config.Default()
	if cfg != nil {
		conf = *cfg
	}

	custom, err := config.CompilePatterns(conf.Patterns)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		logger:     logger,
		classifier: classify.NewClassifier(classify.NewRegistry(custom...)),
		tracker:    stats.NewTracker(),
		hub:        events.NewHub(logger),
		emitter:    logging.NewEmitter(logger, emitterOptions(conf.Logging)),
		reporter: report.NewReporter(report.Options{
			Enabled:                 conf.Reporting.Enabled,
			Endpoint:                conf.Reporting.Endpoint,
			APIKey:                  conf.Reporting.APIKey,
			IncludeUserData:         conf.Reporting.IncludeUserData,
			IncludeTechnicalDetails: conf.Reporting.IncludeTechnicalDetails,
			Timeout:                 conf.Reporting.Timeout,
		}),
		cfg:   conf,
		sleep: sleepContext,
	}
	return h, nil
}

// Classify matches a failure against extra rules, configured custom
// rules, then the built-in table, first match winning. It has no side
// effects; use HandleError for the full pipeline.
func (h *Handler) Classify(err error, label string, extra ...Pattern) *CategorizedError {
	if err == nil {
		return nil
	}
	return h.classifier.Classify(err, label, extra...)
}

// HandleError runs the full pipeline for one failure: classify, track,
// log, report, notify. Reporting failures are swallowed; they are logged
// as a warning at most and never disturb the rest of the pipeline.
func (h *Handler) HandleError(err error, label string) *CategorizedError {
	if err == nil {
		return nil
	}

	e := h.classifier.Classify(err, label)

	h.tracker.Track(e)
	metrics.ErrorsClassified.WithLabelValues(string(e.Category), e.Severity.String()).Inc()

	h.emitter.Emit(e)
	h.report(e)
	h.hub.Notify(e)

	return e
}

// HandleWithRetry runs op, classifying every failure through the full
// pipeline, and retries with exponential backoff while the classification
// allows it. maxRetries bounds the retries after the first attempt;
// UseDefaultRetries selects the configured budget. On exhaustion or an
// ineligible failure the ORIGINAL error comes back, not the categorized
// wrapper, so callers can still match on its type. The inter-attempt wait
// honors ctx cancellation.
func (h *Handler) HandleWithRetry(ctx context.Context, label string, maxRetries int, op Operation) (any, error) {
	if maxRetries < 0 {
		h.mu.RLock()
		maxRetries = h.cfg.Retry.MaxRetries
		h.mu.RUnlock()
	}

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		e := h.HandleError(err, label)

		if attempt >= maxRetries || !retryEligible(e) {
			if attempt >= maxRetries {
				metrics.RetriesExhausted.WithLabelValues(string(e.Category)).Inc()
			}
			return nil, err
		}

		delay := backoffDelay(e.Category, e.Severity, attempt)
		metrics.RetriesTotal.WithLabelValues(string(e.Category)).Inc()
		metrics.RetryDelay.Observe(delay.Seconds())
		h.logger.Debug("retrying after failure",
			"context", label, "code", e.Code, "attempt", attempt, "delay", delay)

		if werr := h.sleep(ctx, delay); werr != nil {
			return nil, werr
		}
	}
}

// retryEligible applies the retry policy: only RETRY-action failures
// below CRITICAL severity retry, and VALIDATION and USER failures never
// do regardless of action.
func retryEligible(e *CategorizedError) bool {
	if e.RecoveryAction != ActionRetry {
		return false
	}
	if e.Severity == SeverityCritical {
		return false
	}
	if e.Category == CategoryValidation || e.Category == CategoryUser {
		return false
	}
	return true
}

// AddListener registers a listener; it is notified synchronously, in
// registration order, for every classification.
func (h *Handler) AddListener(l Listener) {
	h.hub.Add(l)
}

// RemoveListener removes the first registered listener equal to l.
func (h *Handler) RemoveListener(l Listener) {
	h.hub.Remove(l)
}

// ErrorStats returns the aggregate snapshot of observed classifications.
func (h *Handler) ErrorStats() Stats {
	return h.tracker.Snapshot()
}

// ClearStats resets all aggregate counts.
func (h *Handler) ClearStats() {
	h.tracker.Clear()
}

// UpdateConfig merges a partial configuration over the current one and
// rewires the affected components.
func (h *Handler) UpdateConfig(o config.Overrides) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cfg
	next.Apply(o)

	custom, err := config.CompilePatterns(next.Patterns)
	if err != nil {
		return err
	}

	h.cfg = next
	h.classifier.Registry().SetCustom(custom)
	h.emitter.SetOptions(emitterOptions(next.Logging))
	h.reporter.SetOptions(report.Options{
		Enabled:                 next.Reporting.Enabled,
		Endpoint:                next.Reporting.Endpoint,
		APIKey:                  next.Reporting.APIKey,
		IncludeUserData:         next.Reporting.IncludeUserData,
		IncludeTechnicalDetails: next.Reporting.IncludeTechnicalDetails,
	})
	return nil
}

func (h *Handler) report(e *CategorizedError) {
	if !h.reporter.Active() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.reporter.Report(ctx, e); err != nil {
		metrics.ReportsTotal.WithLabelValues("failed").Inc()
		h.logger.Warn("error report failed", "code", e.Code, "error", err)
		return
	}
	metrics.ReportsTotal.WithLabelValues("sent").Inc()
}

func emitterOptions(lc config.LoggingConfig) logging.Options {
	return logging.Options{
		Console:      lc.Console,
		Structured:   lc.Structured,
		MinSeverity:  domain.ParseSeverity(lc.Level),
		IncludeStack: lc.IncludeStack,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
