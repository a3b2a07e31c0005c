package feed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type stubRows struct {
	rows  []model.FeedRow
	err   error
	calls int
	seen  []int
}

func (s *stubRows) FeedRows(_ context.Context, screenID int) ([]model.FeedRow, error) {
	s.calls++
	s.seen = append(s.seen, screenID)
	return s.rows, s.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[int][]model.FeedEntry
}

func (c *memoryCache) Get(_ context.Context, screenID int) ([]model.FeedEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[screenID]
	return e, ok
}

func (c *memoryCache) Set(_ context.Context, screenID int, entries []model.FeedEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[int][]model.FeedEntry{}
	}
	c.entries[screenID] = entries
}

func TestServiceComputesFromRows(t *testing.T) {
	src := &stubRows{rows: []model.FeedRow{
		row(1, 0, 1, 0, ptr(model.ContentTypeVideo), ptr("ab/abcd.mp4")),
	}}
	svc := NewService(src, 7000, WithMetrics(metrics.New()))

	entries, err := svc.ForScreen(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, []model.FeedEntry{{ContentType: model.ContentTypeVideo, FilePath: "ab/abcd.mp4", Duration: 7000}}, entries)
	assert.Equal(t, []int{3}, src.seen)
}

func TestServiceDefaultsEntryDuration(t *testing.T) {
	src := &stubRows{rows: []model.FeedRow{row(1, 0, 1, 0, nil, nil)}}
	svc := NewService(src, 0)

	entries, err := svc.ForScreen(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultEntryDuration, entries[0].Duration)
}

func TestServicePropagatesQueryErrors(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&stubRows{err: boom}, 10000)

	_, err := svc.ForScreen(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
}

func TestServiceUsesCache(t *testing.T) {
	src := &stubRows{rows: []model.FeedRow{row(1, 0, 1, 0, nil, nil)}}
	cache := &memoryCache{}
	svc := NewService(src, 10000, WithCache(cache))

	first, err := svc.ForScreen(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.ForScreen(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)

	_, err = svc.ForScreen(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}
