// Package notification sends best-effort messages after a use case commits.
// Delivery runs off the request path: a slow or failing notifier never
// delays or fails the operation that triggered it.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sendit/internal/core/ports"
)

// Recorder counts delivery outcomes. The metrics adapter implements it.
type Recorder interface {
	NotificationSent(kind ports.NotificationKind)
	NotificationFailed(kind ports.NotificationKind)
}

type nopRecorder struct{}

func (nopRecorder) NotificationSent(ports.NotificationKind)   {}
func (nopRecorder) NotificationFailed(ports.NotificationKind) {}

type Option func(*Dispatcher)

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// Dispatcher fans notifications out on their own goroutines. Each attempt
// is isolated and bounded by timeout.
type Dispatcher struct {
	notifier ports.Notifier
	timeout  time.Duration
	logger   *slog.Logger
	recorder Recorder
	wg       sync.WaitGroup
}

func NewDispatcher(notifier ports.Notifier, timeout time.Duration, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		logger:   logger.With("component", "notification_dispatcher"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts one delivery per notification and returns immediately.
// Notifications without a recipient address are dropped.
// The caller's cancellation does not abort delivery; values are kept.
func (d *Dispatcher) Dispatch(ctx context.Context, notifications ...ports.Notification) {
	base := context.WithoutCancel(ctx)

	for _, n := range notifications {
		if n.RecipientEmail == "" {
			continue
		}

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(base, n)
		}()
	}
}

// Wait blocks until every started delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, n ports.Notification) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.recorder.NotificationFailed(n.Kind)
			d.logger.ErrorContext(ctx, "notifier panicked", "kind", n.Kind, "panic", r)
		}
	}()

	if err := d.notifier.Notify(ctx, n); err != nil {
		d.recorder.NotificationFailed(n.Kind)
		d.logger.WarnContext(ctx, "notification failed",
			"kind", n.Kind,
			"recipient", n.RecipientEmail,
			"error", err,
		)
		return
	}

	d.recorder.NotificationSent(n.Kind)
	d.logger.DebugContext(ctx, "notification sent", "kind", n.Kind, "recipient", n.RecipientEmail)
}
