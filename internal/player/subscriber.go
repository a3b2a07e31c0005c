// Package player follows one screen's feed and drives what the screen shows.
package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

const maxMessageSize = 1 << 20

// FeedError is an error reported in band by the server.
type FeedError = packets.FeedError

// Handler receives decoded feed messages.
type Handler interface {
	OnFeed(entries []model.FeedEntry)
	OnFeedError(fe FeedError)
}

type socketMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscriber holds a WebSocket open to the feed endpoint of one screen and
// reconnects after a fixed delay whenever it drops.
type Subscriber struct {
	dialer         *websocket.Dialer
	url            string
	reconnectDelay time.Duration
}

func NewSubscriber(dialer *websocket.Dialer, serverURL string, screenID int, reconnectDelay time.Duration) (*Subscriber, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	feedURL, err := socketURL(serverURL, screenID)
	if err != nil {
		return nil, err
	}
	return &Subscriber{
		dialer:         dialer,
		url:            feedURL,
		reconnectDelay: reconnectDelay,
	}, nil
}

// socketURL maps the server's http(s) base URL to the feed socket address.
func socketURL(serverURL string, screenID int) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server url scheme %q", u.Scheme)
	}
	u.Path = fmt.Sprintf("%s/api/tv/feed/%d/ws", u.Path, screenID)
	return u.String(), nil
}

// Run streams until ctx is done.
func (s *Subscriber) Run(ctx context.Context, h Handler) error {
	for {
		err := s.stream(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Str("url", s.url).Dur("retry_in", s.reconnectDelay).Msg("[player] feed stream lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Subscriber) stream(ctx context.Context, h Handler) error {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("feed socket: unexpected status %s: %w", resp.Status, err)
		}
		return err
	}
	defer conn.Close()

	// unblocks ReadJSON when the player stops
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	conn.SetReadLimit(maxMessageSize)
	log.Info().Str("url", s.url).Msg("[player] feed stream connected")

	for {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		dispatch(h, msg.Event, msg.Data)
	}
}

func dispatch(h Handler, event string, data json.RawMessage) {
	switch event {
	case packets.EventFeed:
		var entries []model.FeedEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			log.Warn().Err(err).Msg("[player] malformed feed message")
			return
		}
		h.OnFeed(entries)
	case packets.EventFeedError:
		var fe FeedError
		if err := json.Unmarshal(data, &fe); err != nil {
			log.Warn().Err(err).Msg("[player] malformed feed-error message")
			return
		}
		h.OnFeedError(fe)
	default:
		log.Debug().Str("event", event).Msg("[player] ignoring event")
	}
}
