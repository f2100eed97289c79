package notify

import (
	"context"
	"errors"
)

// Fanout publishes to every notifier in order. A failing notifier does not
// stop delivery to the others; all failures are joined.
type Fanout []Notifier

// Publish implements Notifier.
func (f Fanout) Publish(ctx context.Context, events ...Event) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter forwards to Next only the events Keep accepts. A batch with no
// accepted events never reaches Next.
type Filter struct {
	Next Notifier
	Keep func(Event) bool
}

// Publish implements Notifier.
func (f Filter) Publish(ctx context.Context, events ...Event) error {
	if f.Next == nil {
		return nil
	}
	kept := make([]Event, 0, len(events))
	for _, event := range events {
		if f.Keep == nil || f.Keep(event) {
			kept = append(kept, event)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return f.Next.Publish(ctx, kept...)
}

// SessionScoped passes through only events tied to a single session, which
// drops the sessions list.
func SessionScoped(n Notifier) Notifier {
	return Filter{Next: n, Keep: func(e Event) bool { return e.SessionID != "" }}
}
