package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type recordingHandler struct {
	mu     sync.Mutex
	feeds  [][]model.FeedEntry
	errors []FeedError
	onFeed func(n int)
}

func (h *recordingHandler) OnFeed(entries []model.FeedEntry) {
	h.mu.Lock()
	h.feeds = append(h.feeds, entries)
	n := len(h.feeds)
	h.mu.Unlock()
	if h.onFeed != nil {
		h.onFeed(n)
	}
}

func (h *recordingHandler) OnFeedError(fe FeedError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, fe)
}

var testUpgrader = websocket.Upgrader{}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:8080", "ws://localhost:8080/api/tv/feed/3/ws"},
		{"https://signage.example.com/", "wss://signage.example.com/api/tv/feed/3/ws"},
		{"http://proxy.local/lobby", "ws://proxy.local/lobby/api/tv/feed/3/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			got, err := socketURL(tt.server, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := socketURL("ftp://host", 3)
	assert.Error(t, err)
}

func TestDispatch(t *testing.T) {
	h := &recordingHandler{}

	dispatch(h, "feed", json.RawMessage(`[{"content_type":"Image","file_path":"ab/ab.png","duration":10000}]`))
	dispatch(h, "feed-error", json.RawMessage(`{"msg":"internal server error","status":500}`))
	dispatch(h, "feed", json.RawMessage(`"not a feed"`))
	dispatch(h, "ping", json.RawMessage(`{}`))

	require.Len(t, h.feeds, 1)
	assert.Equal(t, "ab/ab.png", h.feeds[0][0].FilePath)
	assert.Equal(t, []FeedError{{Msg: "internal server error", Status: 500}}, h.errors)
}

func TestSubscriberReconnects(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tv/feed/7/ws", r.URL.Path)
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		n := connections.Add(1)
		msg := fmt.Sprintf(`{"event":"feed","data":[{"content_type":"Image","file_path":"c%d","duration":1}]}`, n)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
		// the connection drops after one message
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := &recordingHandler{onFeed: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	sub, err := NewSubscriber(nil, srv.URL+"/", 7, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, sub.Run(ctx, h))

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.feeds, 2)
	assert.Equal(t, "c1", h.feeds[0][0].FilePath)
	assert.Equal(t, "c2", h.feeds[1][0].FilePath)
}

func TestSubscriberRetriesOnBadStatus(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if connections.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"feed","data":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := &recordingHandler{onFeed: func(int) { cancel() }}
	sub, err := NewSubscriber(nil, srv.URL, 1, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, sub.Run(ctx, h))
	assert.GreaterOrEqual(t, connections.Load(), int32(2))
	assert.Len(t, h.feeds, 1)
}

func TestSubscriberStopsWhileConnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"feed","data":[]}`))
		// hold the socket open until the client leaves
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	h := &recordingHandler{onFeed: func(int) { cancel() }}
	sub, err := NewSubscriber(nil, srv.URL, 1, time.Hour)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx, h) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
