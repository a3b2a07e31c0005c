package playback

import (
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// Clock supplies wall-clock time and timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}

// ShowFunc is told what to display. ok is false when nothing should be
// shown. It is only called when the selection changes.
type ShowFunc func(sel Selection, ok bool)

// Scheduler drives one screen view. It owns a single timer: every feed update
// and every expiry cancels the pending timer and selects again from the
// current feed and the current time, never from a remembered index.
//
// Display calls are made one at a time and in selection order; a selection
// superseded before its call starts is dropped.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	show    ShowFunc
	feed    []model.FeedEntry
	timer   Timer
	gen     uint64
	shown   *Selection
	stopped bool

	// notifyMu serializes show calls. seq numbers selection changes.
	notifyMu sync.Mutex
	seq      uint64
}

func NewScheduler(clock Clock, show ShowFunc) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{clock: clock, show: show}
}

// SetFeed replaces the feed and reschedules.
func (s *Scheduler) SetFeed(feed []model.FeedEntry) {
	copied := append([]model.FeedEntry(nil), feed...)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.feed = copied
	notify := s.rescheduleLocked()
	s.mu.Unlock()

	notify()
}

// Stop cancels the pending timer. The scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.gen++
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Current returns what is on display.
func (s *Scheduler) Current() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown == nil {
		return Selection{}, false
	}
	return *s.shown, true
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	notify := s.rescheduleLocked()
	s.mu.Unlock()

	notify()
}

// rescheduleLocked must be called with mu held. The returned func reports the
// new selection and must be called after mu is released.
func (s *Scheduler) rescheduleLocked() func() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++

	sel, ok := SelectCurrentEntry(s.feed, s.clock.Now().UnixMilli())
	if ok {
		gen := s.gen
		s.timer = s.clock.AfterFunc(time.Duration(sel.Remaining)*time.Millisecond, func() { s.fire(gen) })
	}

	changed := s.changed(sel, ok)
	if ok {
		s.shown = &sel
	} else {
		s.shown = nil
	}
	if !changed || s.show == nil {
		return func() {}
	}
	s.seq++
	return s.notifier(s.seq, sel, ok)
}

func (s *Scheduler) notifier(seq uint64, sel Selection, ok bool) func() {
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()

		s.mu.Lock()
		stale := seq != s.seq
		s.mu.Unlock()
		if stale {
			return
		}
		s.show(sel, ok)
	}
}

func (s *Scheduler) changed(sel Selection, ok bool) bool {
	if !ok {
		return s.shown != nil
	}
	return s.shown == nil || s.shown.Index != sel.Index || s.shown.Entry != sel.Entry
}
