package notification

import (
	"context"
	"errors"

	"sendit/internal/core/ports"
)

// Fanout hands each notification to every notifier in order. A failing
// notifier does not stop the rest; their errors are joined.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, n ports.Notification) error {
	var errList []error
	for _, notifier := range f {
		if err := notifier.Notify(ctx, n); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// Discard drops every notification. It stands in when no channel is
// configured.
type Discard struct{}

func (Discard) Notify(context.Context, ports.Notification) error {
	return nil
}
