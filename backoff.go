package faultline

import (
	"math"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
)

const (
	networkBaseDelay = 1000 * time.Millisecond
	defaultBaseDelay = 500 * time.Millisecond
	maxBackoffDelay  = 10 * time.Second

	highSeverityMultiplier = 2.0
	defaultMultiplier      = 1.5
)

// backoffDelay computes the wait before the next attempt: the base grows
// exponentially with the zero-based count of prior failed attempts and is
// capped. Network failures start from a longer base; high-severity
// failures grow faster.
func backoffDelay(category domain.Category, severity domain.Severity, attempt int) time.Duration {
	base := defaultBaseDelay
	if category == domain.CategoryNetwork {
		base = networkBaseDelay
	}

	multiplier := defaultMultiplier
	if severity == domain.SeverityHigh {
		multiplier = highSeverityMultiplier
	}

	delay := float64(base) * math.Pow(multiplier, float64(attempt))
	if delay > float64(maxBackoffDelay) {
		delay = float64(maxBackoffDelay)
	}
	return time.Duration(delay)
}
