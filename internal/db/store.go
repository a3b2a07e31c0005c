// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// BlobWriter stores an uploaded file and returns its path in the blob store.
// It runs inside the content transaction, so a failure rolls the row back.
type BlobWriter func(ctx context.Context) (string, error)

// NewContent describes a content upload for one (slide, screen) pair.
type NewContent struct {
	SlideID     int
	ScreenID    int
	ContentType model.ContentType
}

type Store interface {
	// user functions
	CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int, email string, name *string) error

	// screen functions
	ListScreens(ctx context.Context) ([]model.Screen, error)
	CreateScreen(ctx context.Context, name string, position int) (int, error)

	// slide group functions
	ListSlideGroups(ctx context.Context) ([]model.SlideGroup, error)
	GetSlideGroup(ctx context.Context, id int) (*model.SlideGroup, error)
	CreateSlideGroup(ctx context.Context, fields model.SlideGroupFields, createdBy string) (int, error)
	UpdateSlideGroup(ctx context.Context, id int, fields model.SlideGroupFields) error
	PublishSlideGroup(ctx context.Context, id int) error
	ArchiveSlideGroup(ctx context.Context, id int) error
	UnpinSlideGroups(ctx context.Context) (int64, error)

	// slide functions
	CreateSlide(ctx context.Context, groupID, position int) (int, error)
	MoveSlides(ctx context.Context, newPositions map[int]int) error
	ArchiveSlide(ctx context.Context, id int) error

	// content functions
	CreateContent(ctx context.Context, content NewContent, write BlobWriter) (int, error)

	// feed functions
	FeedRows(ctx context.Context, screenID int) ([]model.FeedRow, error)
}

type pgStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn, now: func() time.Time { return time.Now().UTC() }}
}

// inTx runs fn in a transaction, committing when fn succeeds and rolling back
// otherwise.
func (s *pgStore) inTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("[db] rollback failed")
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

var readOnly = &sql.TxOptions{ReadOnly: true}
