// Package playback decides what a screen shows at any instant. The choice is
// a pure function of the feed and the wall clock, so every screen running the
// same feed shows the same slot at the same time without coordinating.
package playback

import "github.com/Nixie-Tech-LLC/lobby/internal/model"

// Selection is the entry visible at some instant.
type Selection struct {
	Index     int
	Entry     model.FeedEntry
	Remaining int64 // milliseconds until the next transition
}

// SelectCurrentEntry returns the entry visible at nowMs (Unix milliseconds).
// ok is false when nothing can be displayed: an empty feed or one whose
// durations add up to zero. Negative durations count as zero.
func SelectCurrentEntry(feed []model.FeedEntry, nowMs int64) (sel Selection, ok bool) {
	total := CycleLength(feed)
	if total <= 0 {
		return Selection{}, false
	}

	offset := nowMs % total
	if offset < 0 {
		offset += total
	}

	var elapsed int64
	for i, e := range feed {
		elapsed += duration(e)
		if elapsed > offset {
			return Selection{Index: i, Entry: e, Remaining: elapsed - offset}, true
		}
	}
	// unreachable: offset < total == elapsed after the last entry
	return Selection{}, false
}

// CycleLength is the total duration of one pass over the feed in milliseconds.
func CycleLength(feed []model.FeedEntry) int64 {
	var total int64
	for _, e := range feed {
		total += duration(e)
	}
	return total
}

func duration(e model.FeedEntry) int64 {
	if e.Duration < 0 {
		return 0
	}
	return int64(e.Duration)
}
