// Package feed derives the programme a screen should cycle through and keeps
// connected screens supplied with it.
package feed

import "github.com/Nixie-Tech-LLC/lobby/internal/model"

// DefaultEntryDuration is the display time of one entry in milliseconds.
const DefaultEntryDuration = 10000

// Compute turns the ordered candidate rows of one screen into feed entries.
//
// Rows must already be sorted by priority descending, then group id, slide
// position, slide id and content id. Only rows sharing the highest priority
// survive, so a pinned group hides every lower priority group. Slides with no
// content for the screen become placeholders, keeping screens aligned in
// time. The row order is kept as is.
func Compute(rows []model.FeedRow, entryDuration int) []model.FeedEntry {
	entries := make([]model.FeedEntry, 0, len(rows))
	if len(rows) == 0 {
		return entries
	}

	maxPriority := rows[0].GroupPriority
	for _, row := range rows {
		if row.GroupPriority != maxPriority {
			continue
		}

		entry := model.FeedEntry{
			ContentType: model.ContentTypeImage,
			Duration:    entryDuration,
		}
		if row.ContentType != nil {
			entry.ContentType = *row.ContentType
		}
		if row.FilePath != nil {
			entry.FilePath = *row.FilePath
		}
		entries = append(entries, entry)
	}
	return entries
}
