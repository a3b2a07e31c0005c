package model

// Slide is one step in a group's rotation. Position is not unique, ties are
// broken by id.
type Slide struct {
	ID       int       `db:"id"             json:"id"`
	Position int       `db:"position"       json:"position"`
	GroupID  int       `db:"slide_group_id" json:"slide_group"`
	Archive  Lifecycle `db:"archive_date"   json:"archive_date"`
	Content  []Content `db:"-"              json:"content"`
}
