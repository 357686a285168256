// Package startup loads the initial task list with bounded retries and gates
// the interactive surface until that load has settled.
package startup

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

// Lister fetches the current task listing.
type Lister interface {
	List(ctx context.Context) ([]tasks.Task, error)
}

// Result is the settled outcome of a load. Ready is always true; Err holds the
// last failure when every attempt failed.
type Result struct {
	Tasks    []tasks.Task
	Ready    bool
	Attempts int
	Err      error
}

// Loader fetches the listing, retrying failures.
type Loader struct {
	lister Lister
	jitter bool
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithJitter switches the fixed delay to exponential backoff with jitter,
// starting at the configured delay.
func WithJitter(enabled bool) Option {
	return func(l *Loader) { l.jitter = enabled }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader over lister.
func NewLoader(lister Lister, opts ...Option) *Loader {
	l := &Loader{lister: lister, logger: slog.Default()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load makes at most maxAttempts attempts, waiting delay between them. It never
// fails: exhaustion or cancellation settle with an empty, ready result.
func (l *Loader) Load(ctx context.Context, maxAttempts int, delay time.Duration) Result {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	op := func() ([]tasks.Task, error) {
		attempts++
		list, err := l.lister.List(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []tasks.Task{}
		}
		return list, nil
	}

	notify := func(err error, next time.Duration) {
		l.logger.Debug("task load failed, retrying", "attempt", attempts, "next", next, "error", err)
	}

	list, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(l.policy(delay)),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err != nil {
		l.logger.Warn("task load gave up", "attempts", attempts, "error", err)
		return Result{Tasks: []tasks.Task{}, Ready: true, Attempts: attempts, Err: err}
	}

	l.logger.Debug("tasks loaded", "count", len(list), "attempts", attempts)
	return Result{Tasks: list, Ready: true, Attempts: attempts}
}

func (l *Loader) policy(delay time.Duration) backoff.BackOff {
	if !l.jitter {
		return backoff.NewConstantBackOff(delay)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = delay
	b.MaxInterval = 30 * delay
	return b
}
