package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// CreateSlide appends a slide to a group that exists and is not archived.
func (s *pgStore) CreateSlide(ctx context.Context, groupID, position int) (int, error) {
	var id int
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := lockActiveSlideGroup(ctx, tx, groupID); err != nil {
			return err
		}
		return tx.GetContext(ctx, &id, `
		INSERT INTO slide (position, slide_group_id, archive_date)
		VALUES ($1, $2, NULL)
		RETURNING id;`, position, groupID)
	})
	if err != nil {
		return 0, wrapUnlessDomain(err, "create slide in group %d", groupID)
	}
	return id, nil
}

// MoveSlides applies all position changes or none of them. Slides are
// visited in id order and only rows whose position changes are written.
func (s *pgStore) MoveSlides(ctx context.Context, newPositions map[int]int) error {
	ids := make([]int, 0, len(newPositions))
	for id := range newPositions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		for _, id := range ids {
			slide, err := lockSlide(ctx, tx, id)
			if err != nil {
				return err
			}
			if slide.Archive.IsArchived() {
				return model.ErrSlideArchived
			}

			position := newPositions[id]
			if slide.Position == position {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE slide SET position = $2 WHERE id = $1;`, id, position); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapUnlessDomain(err, "move slides")
}

// ArchiveSlide soft-deletes a slide. Archiving twice is an error.
func (s *pgStore) ArchiveSlide(ctx context.Context, id int) error {
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		slide, err := lockSlide(ctx, tx, id)
		if err != nil {
			return err
		}
		if slide.Archive.IsArchived() {
			return model.ErrSlideArchived
		}
		_, err = tx.ExecContext(ctx, `UPDATE slide SET archive_date = $2 WHERE id = $1;`, id, s.now())
		return err
	})
	return wrapUnlessDomain(err, "archive slide %d", id)
}

func lockSlide(ctx context.Context, tx *sqlx.Tx, id int) (model.Slide, error) {
	var slide model.Slide
	err := tx.GetContext(ctx, &slide, `
		SELECT id, position, slide_group_id, archive_date
		FROM slide
		WHERE id = $1
		FOR UPDATE;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return slide, model.ErrSlideNotFound
	}
	if err != nil {
		return slide, fmt.Errorf("load slide %d: %w", id, err)
	}
	return slide, nil
}
