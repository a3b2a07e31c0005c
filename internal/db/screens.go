package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

func (s *pgStore) ListScreens(ctx context.Context) ([]model.Screen, error) {
	screens := []model.Screen{}
	err := s.db.SelectContext(ctx, &screens, `
		SELECT id, name, position
		FROM screen
		ORDER BY position, id;`)
	if err != nil {
		log.Error().Err(err).Msg("[db] ListScreens: failed to select screens")
		return nil, err
	}
	return screens, nil
}

func (s *pgStore) CreateScreen(ctx context.Context, name string, position int) (int, error) {
	var id int
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO screen (name, position)
		VALUES ($1, $2)
		RETURNING id;`, name, position)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("[db] CreateScreen: failed to insert screen")
		return 0, err
	}
	return id, nil
}
