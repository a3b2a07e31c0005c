// Command player follows one screen's feed and drives its display.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/config"
	"github.com/Nixie-Tech-LLC/lobby/internal/logger"
	"github.com/Nixie-Tech-LLC/lobby/internal/playback"
	"github.com/Nixie-Tech-LLC/lobby/internal/player"
)

func main() {
	cfg, err := config.LoadPlayer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var display player.Display = player.LogDisplay{}
	if cfg.MQTTBrokerURL != "" {
		mqttDisplay, closeDisplay, err := player.NewMQTTDisplay(cfg.MQTTBrokerURL, cfg.MQTTClientID, cfg.MQTTTopic, cfg.DeviceID)
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		defer closeDisplay()
		display = mqttDisplay
		log.Info().Str("topic", mqttDisplay.Topic()).Msg("[player] publishing to MQTT")
	}

	p := player.New(display, cfg.MediaBaseURL, playback.SystemClock)
	defer p.Stop()

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	sub, err := player.NewSubscriber(dialer, cfg.ServerURL, cfg.ScreenID, cfg.ReconnectDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("feed subscriber")
	}
	log.Info().Int("screen", cfg.ScreenID).Str("server", cfg.ServerURL).Msg("[player] following feed")

	if err := sub.Run(ctx, p); err != nil {
		log.Error().Err(err).Msg("[player] stopped")
	}
}
