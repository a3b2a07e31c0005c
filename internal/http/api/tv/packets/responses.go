package packets

// FeedError is the payload of a "feed-error" message.
type FeedError struct {
	Msg    string `json:"msg"`
	Status int    `json:"status"`
}

// SocketMessage frames feed messages on the WebSocket transport, mirroring
// the SSE event names.
type SocketMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

const (
	EventFeed      = "feed"
	EventFeedError = "feed-error"
)
