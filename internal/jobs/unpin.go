package jobs

import (
	"context"

	"github.com/rs/zerolog/log"
)

const UnpinJobName = "unpin"

// Unpinner resets pinned slide group priorities.
type Unpinner interface {
	UnpinSlideGroups(ctx context.Context) (int64, error)
}

// Unpin returns the daily job that drops every pinned group back to the
// normal priority.
func Unpin(store Unpinner) Func {
	return func(ctx context.Context) error {
		n, err := store.UnpinSlideGroups(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("groups", n).Msg("[jobs] unpinned slide groups")
		return nil
	}
}
