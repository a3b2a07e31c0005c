package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Lifecycle is the soft-delete state of a record: either active or archived at
// a point in time. It maps to a nullable archive_date column.
type Lifecycle struct {
	archivedAt time.Time
}

// Active returns the lifecycle of a record that has not been archived.
func Active() Lifecycle {
	return Lifecycle{}
}

// ArchivedAt returns the lifecycle of a record archived at t.
func ArchivedAt(t time.Time) Lifecycle {
	return Lifecycle{archivedAt: t.UTC()}
}

func (l Lifecycle) IsArchived() bool {
	return !l.archivedAt.IsZero()
}

// Scan implements sql.Scanner.
func (l *Lifecycle) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = Active()
	case time.Time:
		*l = ArchivedAt(v)
	default:
		return fmt.Errorf("lifecycle: cannot scan %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (l Lifecycle) Value() (driver.Value, error) {
	if !l.IsArchived() {
		return nil, nil
	}
	return l.archivedAt, nil
}

func (l Lifecycle) MarshalJSON() ([]byte, error) {
	if !l.IsArchived() {
		return []byte("null"), nil
	}
	return json.Marshal(l.archivedAt)
}

func (l *Lifecycle) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Active()
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*l = ArchivedAt(t)
	return nil
}
