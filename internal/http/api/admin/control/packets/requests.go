package packets

import "time"

type CreateScreenRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

// SlideGroupRequest is the body for creating and updating slide groups.
type SlideGroupRequest struct {
	Title     string     `json:"title" binding:"required"`
	Priority  int        `json:"priority"`
	Hidden    bool       `json:"hidden"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

type CreateSlideRequest struct {
	Position   int `json:"position"`
	SlideGroup int `json:"slide_group" binding:"required"`
}

// BulkMoveRequest maps slide ids (as JSON object keys) to their new positions.
type BulkMoveRequest struct {
	NewPositions map[string]int `json:"new_positions" binding:"required"`
}

// ContentData is the JSON "data" part of a content upload.
type ContentData struct {
	Slide       int    `json:"slide" binding:"required"`
	Screen      int    `json:"screen" binding:"required"`
	ContentType string `json:"content_type"`
}
