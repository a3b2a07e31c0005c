package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type recordingSink struct {
	feeds  [][]model.FeedEntry
	errs   []error
	onSend func(n int)
	fail   error
}

func (s *recordingSink) Feed(entries []model.FeedEntry) error {
	s.feeds = append(s.feeds, entries)
	s.sent()
	return s.fail
}

func (s *recordingSink) Error(err error) error {
	s.errs = append(s.errs, err)
	s.sent()
	return s.fail
}

func (s *recordingSink) sent() {
	if s.onSend != nil {
		s.onSend(len(s.feeds) + len(s.errs))
	}
}

func TestRunSendsImmediatelyAndOnEveryTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var computed atomic.Int32
	next := func(context.Context) ([]model.FeedEntry, error) {
		computed.Add(1)
		return []model.FeedEntry{{ContentType: model.ContentTypeImage, Duration: 10}}, nil
	}
	sink := &recordingSink{onSend: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	err := Run(ctx, time.Millisecond, next, sink)

	require.NoError(t, err)
	assert.Len(t, sink.feeds, 3)
	assert.Equal(t, int32(3), computed.Load())
}

func TestRunDeliversErrorsInBandAndContinues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("database unavailable")
	var calls atomic.Int32
	next := func(context.Context) ([]model.FeedEntry, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return []model.FeedEntry{}, nil
	}
	sink := &recordingSink{onSend: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	err := Run(ctx, time.Millisecond, next, sink)

	require.NoError(t, err)
	require.Len(t, sink.errs, 1)
	assert.ErrorIs(t, sink.errs[0], boom)
	assert.Len(t, sink.feeds, 1)
}

func TestRunStopsWhenClientIsGone(t *testing.T) {
	gone := errors.New("client disconnected")
	var calls atomic.Int32
	next := func(context.Context) ([]model.FeedEntry, error) {
		calls.Add(1)
		return nil, nil
	}

	err := Run(context.Background(), time.Millisecond, next, &recordingSink{fail: gone})

	assert.ErrorIs(t, err, gone)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunIssuesNoQueriesAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	next := func(context.Context) ([]model.FeedEntry, error) {
		calls.Add(1)
		cancel()
		return nil, context.Canceled
	}
	sink := &recordingSink{}

	err := Run(ctx, time.Hour, next, sink)

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, sink.errs)
	assert.Empty(t, sink.feeds)
}
