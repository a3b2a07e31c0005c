package model

import "time"

// FeedRow is one candidate row of a screen's programme as returned by the
// feed query. ContentType and FilePath are nil when the slide has no content
// for the screen.
type FeedRow struct {
	GroupID        int          `db:"group_id"`
	GroupPriority  int          `db:"group_priority"`
	GroupStartDate time.Time    `db:"group_start_date"`
	SlideID        int          `db:"slide_id"`
	SlidePosition  int          `db:"slide_position"`
	ContentType    *ContentType `db:"content_type"`
	FilePath       *string      `db:"file_path"`
}

// FeedEntry is one slot of a computed feed. An empty FilePath is a
// placeholder.
type FeedEntry struct {
	ContentType ContentType `json:"content_type"`
	FilePath    string      `json:"file_path"`
	Duration    int         `json:"duration"`
}

func (e FeedEntry) IsPlaceholder() bool {
	return e.FilePath == ""
}
