package model

import "time"

// SlideGroup is a titled, scheduled bundle of slides.
type SlideGroup struct {
	ID        int        `db:"id"           json:"id"`
	Title     string     `db:"title"        json:"title"`
	Priority  int        `db:"priority"     json:"priority"`
	Hidden    bool       `db:"hidden"       json:"hidden"`
	CreatedBy string     `db:"created_by"   json:"created_by"`
	StartDate time.Time  `db:"start_date"   json:"start_date"`
	EndDate   *time.Time `db:"end_date"     json:"end_date"`
	Archive   Lifecycle  `db:"archive_date" json:"archive_date"`
	Published bool       `db:"published"    json:"published"`
	Slides    []Slide    `db:"-"            json:"slides"`
}

// SlideGroupFields are the user-editable attributes of a group.
type SlideGroupFields struct {
	Title     string
	Priority  int
	Hidden    bool
	StartDate time.Time
	EndDate   *time.Time
}
