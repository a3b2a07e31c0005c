package config

import (
	"errors"
	"time"
)

// PlayerConfig configures the kiosk player that follows one screen's feed.
type PlayerConfig struct {
	ServerURL      string
	MediaBaseURL   string
	ScreenID       int
	DeviceID       string
	ReconnectDelay time.Duration
	LogLevel       string
	LogPretty      bool

	MQTTBrokerURL string
	MQTTClientID  string
	MQTTTopic     string
}

// LoadPlayer reads the player configuration from .env and the environment.
func LoadPlayer() (*PlayerConfig, error) {
	v := newViper()

	v.SetDefault("PLAYER_SERVER_URL", "http://localhost:8080")
	v.SetDefault("PLAYER_RECONNECT_DELAY", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MQTT_TOPIC", "tv/%s/commands")

	cfg := &PlayerConfig{
		ServerURL:      v.GetString("PLAYER_SERVER_URL"),
		MediaBaseURL:   v.GetString("PLAYER_MEDIA_BASE_URL"),
		ScreenID:       v.GetInt("PLAYER_SCREEN_ID"),
		DeviceID:       v.GetString("PLAYER_DEVICE_ID"),
		ReconnectDelay: parseDuration(v.GetString("PLAYER_RECONNECT_DELAY"), 10*time.Second),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		MQTTBrokerURL:  v.GetString("MQTT_BROKER_URL"),
		MQTTClientID:   v.GetString("MQTT_CLIENT_ID"),
		MQTTTopic:      v.GetString("MQTT_TOPIC"),
	}

	if cfg.ScreenID <= 0 {
		return nil, errors.New("PLAYER_SCREEN_ID must be a positive screen id")
	}
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = cfg.ServerURL + "/uploads"
	}
	if cfg.MQTTBrokerURL != "" && cfg.DeviceID == "" {
		return nil, errors.New("PLAYER_DEVICE_ID is required when MQTT_BROKER_URL is set")
	}
	if cfg.MQTTClientID == "" {
		cfg.MQTTClientID = "player-" + cfg.DeviceID
	}
	return cfg, nil
}
