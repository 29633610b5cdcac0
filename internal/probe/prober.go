// Package probe performs the single bounded-timeout liveness check a URL
// must pass before a short link is created.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Kind classifies a failed probe.
type Kind int

const (
	// KindDead means the target answered with a non-200 status.
	KindDead Kind = iota + 1
	// KindTimedOut means the request exceeded the configured timeout.
	KindTimedOut
	// KindUnreachable covers every other transport-level failure.
	KindUnreachable
)

// Error carries the classified outcome of a failed probe.
type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDead:
		return fmt.Sprintf("HTTP call returned error: %d", e.StatusCode)
	case KindTimedOut:
		return "request timed out"
	default:
		return fmt.Sprintf("target unreachable: %s", e.Detail)
	}
}

// Result is a successful probe: the target answered 200.
type Result struct {
	StatusCode int
	Body       []byte
	CheckedAt  time.Time
}

// Prober issues liveness GETs with a hard timeout. No retries: a single
// failed probe is terminal for that submission.
type Prober struct {
	client       *http.Client
	maxBodyBytes int64
	log          *zap.Logger
}

// New creates a prober with the given timeout. maxBodyBytes caps how much of
// the response body is retained for title enrichment.
func New(timeout time.Duration, maxBodyBytes int64, log *zap.Logger) *Prober {
	return &Prober{
		client:       &http.Client{Timeout: timeout},
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// Check issues one GET against the target and classifies the outcome. The
// returned body is reused for title enrichment so the page is never fetched
// twice.
func (p *Prober) Check(ctx context.Context, target string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: err.Error()}
	}

	checkedAt := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.classify(target, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.log.Debug("failed to close probe response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		p.log.Debug("probe target not live",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return nil, &Error{Kind: KindDead, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodyBytes))
	if err != nil {
		return nil, p.classify(target, err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       body,
		CheckedAt:  checkedAt,
	}, nil
}

func (p *Prober) classify(target string, err error) *Error {
	var netErr interface{ Timeout() bool }
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())

	if timedOut {
		p.log.Debug("probe timed out", zap.String("url", target), zap.Error(err))
		return &Error{Kind: KindTimedOut, Detail: err.Error()}
	}

	p.log.Debug("probe failed", zap.String("url", target), zap.Error(err))
	return &Error{Kind: KindUnreachable, Detail: err.Error()}
}
