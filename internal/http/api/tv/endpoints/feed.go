package endpoints

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/feed"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

// FeedSource computes the current feed of a screen.
type FeedSource interface {
	ForScreen(ctx context.Context, screenID int) ([]model.FeedEntry, error)
}

type FeedController struct {
	source   FeedSource
	interval time.Duration
	metrics  *metrics.Metrics
	// shutdown ends every open stream when the server stops.
	shutdown context.Context
}

func newFeedController(shutdown context.Context, source FeedSource, interval time.Duration, m *metrics.Metrics) *FeedController {
	return &FeedController{source: source, interval: interval, metrics: m, shutdown: shutdown}
}

// FeedModule mounts the public screen feed endpoints.
func FeedModule(shutdown context.Context, source FeedSource, interval time.Duration, m *metrics.Metrics) api.Module {
	ctl := newFeedController(shutdown, source, interval, m)
	return api.ModuleFunc(func(c *api.Controller) {
		c.STREAM("/feed/:screen", ctl.streamFeed)
		c.STREAM("/feed/:screen/ws", ctl.socketFeed)
		c.STREAM("/feed/:screen/snapshot", ctl.snapshotFeed)
	})
}

func screenParam(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("screen"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Msg: "invalid screen id"})
		return 0, false
	}
	return id, true
}

// streamContext ends when the client goes away or the server shuts down.
func (f *FeedController) streamContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	stop := context.AfterFunc(f.shutdown, cancel)
	return streamCtx, func() {
		stop()
		cancel()
	}
}

func (f *FeedController) next(screenID int) feed.NextFunc {
	return func(ctx context.Context) ([]model.FeedEntry, error) {
		return f.source.ForScreen(ctx, screenID)
	}
}

// feedError converts a computation failure into the in-band error payload.
func feedError(ctx *gin.Context, err error) packets.FeedError {
	apiErr := api.FromError(err)
	api.LogIfInternal(ctx, apiErr)
	return packets.FeedError{Msg: apiErr.Message, Status: apiErr.Code}
}

type sseSink struct {
	gin *gin.Context
	ctx context.Context
}

func (s sseSink) Feed(entries []model.FeedEntry) error {
	s.gin.SSEvent(packets.EventFeed, entries)
	s.gin.Writer.Flush()
	return s.ctx.Err()
}

func (s sseSink) Error(err error) error {
	s.gin.SSEvent(packets.EventFeedError, feedError(s.gin, err))
	s.gin.Writer.Flush()
	return s.ctx.Err()
}

// GET /api/tv/feed/:screen
func (f *FeedController) streamFeed(ctx *gin.Context) {
	screenID, ok := screenParam(ctx)
	if !ok {
		return
	}

	streamCtx, cancel := f.streamContext(ctx)
	defer cancel()
	defer f.metrics.StreamOpened("sse")()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)

	log.Debug().Int("screen_id", screenID).Str("request_id", middleware.GetRequestID(ctx)).Msg("[feed] sse stream opened")
	err := feed.Run(streamCtx, f.interval, f.next(screenID), sseSink{gin: ctx, ctx: streamCtx})
	log.Debug().Err(err).Int("screen_id", screenID).Str("request_id", middleware.GetRequestID(ctx)).Msg("[feed] sse stream closed")
}

// GET /api/tv/feed/:screen/snapshot
func (f *FeedController) snapshotFeed(ctx *gin.Context) {
	screenID, ok := screenParam(ctx)
	if !ok {
		return
	}

	entries, err := f.source.ForScreen(ctx.Request.Context(), screenID)
	if err != nil {
		apiErr := api.FromError(err)
		api.LogIfInternal(ctx, apiErr)
		ctx.AbortWithStatusJSON(apiErr.Code, api.ErrorResponse{Msg: apiErr.Message})
		return
	}

	body, err := json.Marshal(entries)
	if err != nil {
		apiErr := api.FromError(err)
		api.LogIfInternal(ctx, apiErr)
		ctx.AbortWithStatusJSON(apiErr.Code, api.ErrorResponse{Msg: apiErr.Message})
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")
	if ctx.GetHeader("If-None-Match") == etag {
		ctx.Status(http.StatusNotModified)
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
