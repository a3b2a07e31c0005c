package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// feedRowsQuery selects every slide of every group eligible at $2, with the
// current content for screen $1 when there is one. The whole eligible set is
// returned; callers narrow it to the top priority themselves.
const feedRowsQuery = `
	SELECT
		g.id         AS group_id,
		g.priority   AS group_priority,
		g.start_date AS group_start_date,
		s.id         AS slide_id,
		s.position   AS slide_position,
		c.content_type,
		c.file_path
	FROM slide s
	JOIN slide_group g ON g.id = s.slide_group_id
	LEFT JOIN content c
		ON c.slide_id = s.id
		AND c.screen_id = $1
		AND c.archive_date IS NULL
	WHERE g.published = TRUE
	  AND g.hidden = FALSE
	  AND g.archive_date IS NULL
	  AND g.start_date <= $2
	  AND (g.end_date IS NULL OR g.end_date >= $2)
	  AND s.archive_date IS NULL
	ORDER BY g.priority DESC, g.id ASC, s.position ASC, s.id ASC, c.id ASC;`

// FeedRows returns the candidate programme rows of a screen from one
// read-only snapshot.
func (s *pgStore) FeedRows(ctx context.Context, screenID int) ([]model.FeedRow, error) {
	rows := []model.FeedRow{}
	err := s.inTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &rows, feedRowsQuery, screenID, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("feed rows for screen %d: %w", screenID, err)
	}
	return rows, nil
}
