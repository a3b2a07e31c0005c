package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/config"
	"github.com/Nixie-Tech-LLC/lobby/internal/storage"
)

// InitStorage selects the configured storage backend. local is nil when
// blobs live in Spaces and are served by its CDN.
func InitStorage(cfg *config.Config) (blobs storage.Storage, local *storage.LocalStorage) {
	if cfg.Spaces.Enabled {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.Spaces.Endpoint,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.CDNURL,
			cfg.Spaces.AccessKey,
			cfg.Spaces.SecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.Spaces.CDNURL).Msg("using DigitalOcean Spaces storage")
		return spacesStorage, nil
	}

	local = storage.NewLocalStorage(cfg.Uploads.Dir)
	log.Info().Str("dir", local.Root()).Msg("using local file storage")
	return local, local
}
