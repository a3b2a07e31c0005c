package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

const selectSlideGroups = `
	SELECT id, title, priority, hidden, created_by, start_date, end_date, archive_date, published
	FROM slide_group`

// ListSlideGroups returns every non-archived group ordered by id, with their
// non-archived slides and current content.
func (s *pgStore) ListSlideGroups(ctx context.Context) ([]model.SlideGroup, error) {
	groups := []model.SlideGroup{}
	err := s.inTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &groups, selectSlideGroups+`
	WHERE archive_date IS NULL
	ORDER BY id;`); err != nil {
			return err
		}
		return attachSlides(ctx, tx, groups)
	})
	if err != nil {
		return nil, fmt.Errorf("list slide groups: %w", err)
	}
	return groups, nil
}

// GetSlideGroup returns one group, archived or not.
func (s *pgStore) GetSlideGroup(ctx context.Context, id int) (*model.SlideGroup, error) {
	var group model.SlideGroup
	err := s.inTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &group, selectSlideGroups+`
	WHERE id = $1;`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrSlideGroupNotFound
			}
			return err
		}
		groups := []model.SlideGroup{group}
		if err := attachSlides(ctx, tx, groups); err != nil {
			return err
		}
		group = groups[0]
		return nil
	})
	if err != nil {
		return nil, wrapUnlessDomain(err, "get slide group %d", id)
	}
	return &group, nil
}

func (s *pgStore) CreateSlideGroup(ctx context.Context, fields model.SlideGroupFields, createdBy string) (int, error) {
	var id int
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO slide_group (title, priority, hidden, created_by, start_date, end_date, archive_date, published)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, FALSE)
		RETURNING id;`,
		fields.Title, fields.Priority, fields.Hidden, createdBy, fields.StartDate, fields.EndDate,
	)
	if err != nil {
		return 0, fmt.Errorf("create slide group: %w", err)
	}
	return id, nil
}

// UpdateSlideGroup changes the editable fields only. Publication state,
// archive date and attribution are left alone.
func (s *pgStore) UpdateSlideGroup(ctx context.Context, id int, fields model.SlideGroupFields) error {
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := lockActiveSlideGroup(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
		UPDATE slide_group
		SET title = $2,
		    priority = $3,
		    hidden = $4,
		    start_date = $5,
		    end_date = $6
		WHERE id = $1;`,
			id, fields.Title, fields.Priority, fields.Hidden, fields.StartDate, fields.EndDate,
		)
		return err
	})
	return wrapUnlessDomain(err, "update slide group %d", id)
}

func (s *pgStore) PublishSlideGroup(ctx context.Context, id int) error {
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := lockActiveSlideGroup(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE slide_group SET published = TRUE WHERE id = $1;`, id)
		return err
	})
	return wrapUnlessDomain(err, "publish slide group %d", id)
}

// ArchiveSlideGroup soft-deletes a group. Archiving twice is an error.
func (s *pgStore) ArchiveSlideGroup(ctx context.Context, id int) error {
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := lockActiveSlideGroup(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE slide_group SET archive_date = $2 WHERE id = $1;`, id, s.now())
		return err
	})
	return wrapUnlessDomain(err, "archive slide group %d", id)
}

// UnpinSlideGroups resets the priority of every non-archived group.
func (s *pgStore) UnpinSlideGroups(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE slide_group
		SET priority = 0
		WHERE archive_date IS NULL
		  AND priority <> 0;`)
	if err != nil {
		return 0, fmt.Errorf("unpin slide groups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Warn().Err(err).Msg("[db] UnpinSlideGroups: rows affected unavailable")
		return 0, nil
	}
	return n, nil
}

// lockActiveSlideGroup locks the group row for the rest of the transaction
// and fails unless it exists and is not archived.
func lockActiveSlideGroup(ctx context.Context, tx *sqlx.Tx, id int) error {
	var archive model.Lifecycle
	err := tx.GetContext(ctx, &archive, `SELECT archive_date FROM slide_group WHERE id = $1 FOR UPDATE;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrSlideGroupNotFound
	}
	if err != nil {
		return err
	}
	if archive.IsArchived() {
		return model.ErrSlideGroupArchived
	}
	return nil
}

// attachSlides fills in the non-archived slides of each group, each with its
// non-archived content.
func attachSlides(ctx context.Context, q sqlx.QueryerContext, groups []model.SlideGroup) error {
	if len(groups) == 0 {
		return nil
	}

	groupIDs := make([]int64, len(groups))
	for i, g := range groups {
		groupIDs[i] = int64(g.ID)
	}

	slides := []model.Slide{}
	if err := sqlx.SelectContext(ctx, q, &slides, `
		SELECT id, position, slide_group_id, archive_date
		FROM slide
		WHERE slide_group_id = ANY($1)
		  AND archive_date IS NULL
		ORDER BY position, id;`, pq.Array(groupIDs)); err != nil {
		return err
	}

	contentBySlide := map[int][]model.Content{}
	if len(slides) > 0 {
		slideIDs := make([]int64, len(slides))
		for i, sl := range slides {
			slideIDs[i] = int64(sl.ID)
		}

		var contents []model.Content
		if err := sqlx.SelectContext(ctx, q, &contents, `
		SELECT id, slide_id, screen_id, content_type, file_path, archive_date
		FROM content
		WHERE slide_id = ANY($1)
		  AND archive_date IS NULL
		ORDER BY id;`, pq.Array(slideIDs)); err != nil {
			return err
		}
		for _, c := range contents {
			contentBySlide[c.SlideID] = append(contentBySlide[c.SlideID], c)
		}
	}

	slidesByGroup := map[int][]model.Slide{}
	for _, sl := range slides {
		sl.Content = contentBySlide[sl.ID]
		if sl.Content == nil {
			sl.Content = []model.Content{}
		}
		slidesByGroup[sl.GroupID] = append(slidesByGroup[sl.GroupID], sl)
	}
	for i := range groups {
		groups[i].Slides = slidesByGroup[groups[i].ID]
		if groups[i].Slides == nil {
			groups[i].Slides = []model.Slide{}
		}
	}
	return nil
}

// wrapUnlessDomain adds context to infrastructure errors and passes domain
// errors through untouched.
func wrapUnlessDomain(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
