package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryDuration(t *testing.T) {
	assert.Equal(t, 10000, ParseEntryDuration(""))
	assert.Equal(t, 10000, ParseEntryDuration("ten seconds"))
	assert.Equal(t, 10000, ParseEntryDuration("-5"))
	assert.Equal(t, 10000, ParseEntryDuration("0"))
	assert.Equal(t, 7500, ParseEntryDuration("7500"))
	assert.Equal(t, 7500, ParseEntryDuration(" 7500 "))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lobby?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 10000, cfg.Feed.EntryDuration)
	assert.Equal(t, 60*time.Second, cfg.Feed.TickInterval)
	assert.Equal(t, int64(64<<20), cfg.Uploads.MaxSize)
	assert.Equal(t, "05:00", cfg.Unpin.At)
	assert.Equal(t, "Europe/Stockholm", cfg.Unpin.Timezone)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Spaces.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lobby?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FEED_ENTRY_DURATION", "15000")
	t.Setenv("FEED_TICK_INTERVAL", "30s")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15000, cfg.Feed.EntryDuration)
	assert.Equal(t, 30*time.Second, cfg.Feed.TickInterval)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadInvalidEntryDurationFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lobby?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FEED_ENTRY_DURATION", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Feed.EntryDuration)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadPlayer(t *testing.T) {
	t.Setenv("PLAYER_SCREEN_ID", "2")
	t.Setenv("PLAYER_SERVER_URL", "http://signage.local")

	cfg, err := LoadPlayer()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.ScreenID)
	assert.Equal(t, "http://signage.local/uploads", cfg.MediaBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ReconnectDelay)
	assert.Equal(t, "tv/%s/commands", cfg.MQTTTopic)
}

func TestLoadPlayerNeedsScreen(t *testing.T) {
	t.Setenv("PLAYER_SCREEN_ID", "")

	_, err := LoadPlayer()
	assert.Error(t, err)
}
