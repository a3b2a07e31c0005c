package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/feed"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

const socketWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type socketSink struct {
	conn *websocket.Conn
	gin  *gin.Context
}

func (s socketSink) write(msg packets.SocketMessage) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func (s socketSink) Feed(entries []model.FeedEntry) error {
	return s.write(packets.SocketMessage{Event: packets.EventFeed, Data: entries})
}

func (s socketSink) Error(err error) error {
	return s.write(packets.SocketMessage{Event: packets.EventFeedError, Data: feedError(s.gin, err)})
}

// GET /api/tv/feed/:screen/ws
func (f *FeedController) socketFeed(ctx *gin.Context) {
	screenID, ok := screenParam(ctx)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("[feed] websocket upgrade failed")
		return
	}
	defer conn.Close()

	streamCtx, cancel := f.streamContext(ctx)
	defer cancel()
	defer f.metrics.StreamOpened("websocket")()

	// Screens never send anything; reading surfaces the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Debug().Int("screen_id", screenID).Str("request_id", middleware.GetRequestID(ctx)).Msg("[feed] websocket stream opened")
	err = feed.Run(streamCtx, f.interval, f.next(screenID), socketSink{conn: conn, gin: ctx})
	log.Debug().Err(err).Int("screen_id", screenID).Str("request_id", middleware.GetRequestID(ctx)).Msg("[feed] websocket stream closed")

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

var (
	_ feed.Sink = socketSink{}
	_ feed.Sink = sseSink{}
)
