package feed

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// DefaultTickInterval is how often a connected screen receives its feed.
const DefaultTickInterval = 60 * time.Second

// Sink delivers stream messages to one connected client. A returned error
// means the client is gone.
type Sink interface {
	Feed(entries []model.FeedEntry) error
	Error(err error) error
}

// NextFunc computes the feed for the next message.
type NextFunc func(ctx context.Context) ([]model.FeedEntry, error)

// Run sends a feed immediately and then once per interval until ctx is done or
// the sink fails. Computation errors are delivered in band and the loop goes
// on. Ticks that fire while a send is in progress are dropped.
func Run(ctx context.Context, interval time.Duration, next NextFunc, sink Sink) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		entries, err := next(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			err = sink.Error(err)
		} else {
			err = sink.Feed(entries)
		}
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
