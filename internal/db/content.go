package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// CreateContent replaces the current content of a (slide, screen) pair. The
// previous row is archived rather than removed and its blob stays in place.
// The blob is written after the guards pass and before the insert, all in
// one transaction.
func (s *pgStore) CreateContent(ctx context.Context, content NewContent, write BlobWriter) (int, error) {
	var id int
	err := s.inTx(ctx, nil, func(tx *sqlx.Tx) error {
		var screenExists bool
		if err := tx.GetContext(ctx, &screenExists, `SELECT EXISTS (SELECT 1 FROM screen WHERE id = $1);`, content.ScreenID); err != nil {
			return err
		}
		if !screenExists {
			return model.ErrScreenNotFound
		}

		var slideID int
		err := tx.GetContext(ctx, &slideID, `
		SELECT s.id
		FROM slide s
		JOIN slide_group g ON g.id = s.slide_group_id
		WHERE s.id = $1
		  AND s.archive_date IS NULL
		  AND g.archive_date IS NULL
		FOR UPDATE OF s;`, content.SlideID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrSlideNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE content
		SET archive_date = $3
		WHERE slide_id = $1
		  AND screen_id = $2
		  AND archive_date IS NULL;`, content.SlideID, content.ScreenID, s.now()); err != nil {
			return err
		}

		filePath, err := write(ctx)
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &id, `
		INSERT INTO content (slide_id, screen_id, content_type, file_path, archive_date)
		VALUES ($1, $2, $3, $4, NULL)
		RETURNING id;`, content.SlideID, content.ScreenID, content.ContentType, filePath)
	})
	if err != nil {
		return 0, wrapUnlessDomain(err, "create content for slide %d screen %d", content.SlideID, content.ScreenID)
	}
	return id, nil
}
