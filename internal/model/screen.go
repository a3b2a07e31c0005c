package model

// Screen represents a physical display. Screens are never deleted.
type Screen struct {
	ID       int    `db:"id"       json:"id"`
	Name     string `db:"name"     json:"name"`
	Position int    `db:"position" json:"position"`
}
