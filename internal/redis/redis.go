// Package redis caches computed feeds in Redis so every connection of a
// screen shares one computation per tick, across server instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, address, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", address, err)
	}
	log.Info().Str("address", address).Msg("connected to redis")
	return client, nil
}

// FeedCache stores feeds under "feed:screen:<id>" for a short TTL. Redis
// failures degrade to cache misses.
type FeedCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewFeedCache(client redis.Cmdable, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(screenID int) string {
	return fmt.Sprintf("feed:screen:%d", screenID)
}

func (c *FeedCache) Get(ctx context.Context, screenID int) ([]model.FeedEntry, bool) {
	raw, err := c.client.Get(ctx, feedKey(screenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[redis] feed cache read failed")
		return nil, false
	}

	var entries []model.FeedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[redis] dropping undecodable feed cache entry")
		return nil, false
	}
	return entries, true
}

func (c *FeedCache) Set(ctx context.Context, screenID int, entries []model.FeedEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[redis] failed to encode feed")
		return
	}
	if err := c.client.Set(ctx, feedKey(screenID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[redis] feed cache write failed")
	}
}
