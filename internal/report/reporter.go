// Package report forwards classified failures to an external collection
// endpoint. Forwarding is best-effort: the primary classification flow
// never depends on it, and every failure here is swallowed by the caller.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/faultline/internal/core/domain"
)

// Options configures the reporter. Reporting stays disabled unless both
// Endpoint and APIKey are set.
type Options struct {
	Enabled  bool
	Endpoint string
	APIKey   string

	// IncludeUserData and IncludeTechnicalDetails redact the payload
	// when false.
	IncludeUserData         bool
	IncludeTechnicalDetails bool

	Timeout time.Duration
}

const defaultTimeout = 5 * time.Second

// Payload is the JSON body posted to the endpoint.
type Payload struct {
	EventID   string `json:"event_id"`
	Timestamp string `json:"timestamp"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Action    string `json:"action"`
	Context   string `json:"context,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   string `json:"details,omitempty"`
}

// Reporter posts categorized errors to the configured endpoint.
type Reporter struct {
	httpClient *http.Client

	mu   sync.RWMutex
	opts Options
}

// NewReporter creates a reporter. The HTTP client uses pooled transports
// and a bounded timeout.
func NewReporter(opts Options) *Reporter {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Reporter{
		opts: opts,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetOptions replaces the reporter configuration. The timeout is fixed
// at construction; only the forwarding fields change.
func (r *Reporter) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Enabled = opts.Enabled
	r.opts.Endpoint = opts.Endpoint
	r.opts.APIKey = opts.APIKey
	r.opts.IncludeUserData = opts.IncludeUserData
	r.opts.IncludeTechnicalDetails = opts.IncludeTechnicalDetails
}

// Active reports whether forwarding would actually happen.
func (r *Reporter) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts.Enabled && r.opts.Endpoint != "" && r.opts.APIKey != ""
}

// Report posts the categorized error. It is a no-op unless the reporter
// is active. The returned error is diagnostic only; callers must treat
// reporting as fire-and-forget.
func (r *Reporter) Report(ctx context.Context, e *domain.CategorizedError) error {
	r.mu.RLock()
	opts := r.opts
	r.mu.RUnlock()

	if !opts.Enabled || opts.Endpoint == "" || opts.APIKey == "" || e == nil {
		return nil
	}

	p := Payload{
		EventID:   uuid.NewString(),
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
		Category:  string(e.Category),
		Severity:  e.Severity.String(),
		Code:      e.Code,
		Action:    string(e.RecoveryAction),
		Context:   e.Context,
	}
	if opts.IncludeUserData {
		p.Message = e.UserMessage
	}
	if opts.IncludeTechnicalDetails {
		p.Details = e.TechnicalDetails
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+opts.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("report rejected: status %d", resp.StatusCode)
	}
	return nil
}
