package feed

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// RowSource runs the feed query for a screen.
type RowSource interface {
	FeedRows(ctx context.Context, screenID int) ([]model.FeedRow, error)
}

// Cache holds recently computed feeds so connections of the same screen
// share one computation per tick.
type Cache interface {
	Get(ctx context.Context, screenID int) ([]model.FeedEntry, bool)
	Set(ctx context.Context, screenID int, entries []model.FeedEntry)
}

type Service struct {
	rows          RowSource
	cache         Cache
	metrics       *metrics.Metrics
	entryDuration int
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds a feed service. A non-positive entryDuration falls back to
// DefaultEntryDuration.
func NewService(rows RowSource, entryDuration int, opts ...Option) *Service {
	if entryDuration <= 0 {
		entryDuration = DefaultEntryDuration
	}
	s := &Service{rows: rows, entryDuration: entryDuration}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForScreen returns the current feed of a screen.
func (s *Service) ForScreen(ctx context.Context, screenID int) ([]model.FeedEntry, error) {
	if s.cache != nil {
		entries, ok := s.cache.Get(ctx, screenID)
		s.metrics.CacheLookup(ok)
		if ok {
			return entries, nil
		}
	}

	start := time.Now()
	rows, err := s.rows.FeedRows(ctx, screenID)
	if err != nil {
		s.metrics.ObserveFeed(time.Since(start), err)
		return nil, err
	}
	entries := Compute(rows, s.entryDuration)
	s.metrics.ObserveFeed(time.Since(start), nil)

	if s.cache != nil {
		s.cache.Set(ctx, screenID, entries)
	}
	return entries, nil
}
