package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
	"github.com/Nixie-Tech-LLC/lobby/internal/storage"
)

// multipartOverhead is the body allowance on top of the file size for the
// data part and multipart framing.
const multipartOverhead = 1 << 20

type ContentController struct {
	store         db.Store
	storage       storage.Storage
	maxUploadSize int64
}

func newContentController(store db.Store, storage storage.Storage, maxUploadSize int64) *ContentController {
	return &ContentController{store: store, storage: storage, maxUploadSize: maxUploadSize}
}

// ContentModule mounts all authenticated /content endpoints
func ContentModule(store db.Store, storage storage.Storage, maxUploadSize int64) api.Module {
	ctl := newContentController(store, storage, maxUploadSize)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/content", ctl.createContent)
	})
}

// POST /api/admin/content
func (c *ContentController) createContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadSize+multipartOverhead)

	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, api.FromError(model.ErrFileTooBig)
		}
		return nil, api.BadRequest("missing file")
	}
	if header.Size > c.maxUploadSize {
		return nil, api.FromError(model.ErrFileTooBig)
	}

	var data packets.ContentData
	if err := json.Unmarshal([]byte(ctx.PostForm("data")), &data); err != nil {
		return nil, api.BadRequest("invalid data field")
	}
	if data.Slide == 0 || data.Screen == 0 {
		return nil, api.BadRequest("slide and screen are required")
	}

	contentType := model.ContentTypeImage
	if data.ContentType != "" {
		if contentType, err = model.ParseContentType(data.ContentType); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}

	mimeType := header.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	write := func(wctx context.Context) (string, error) {
		file, err := header.Open()
		if err != nil {
			return "", fmt.Errorf("open upload: %w", err)
		}
		defer file.Close()
		return c.storage.Put(wctx, file, mimeType)
	}

	id, err := c.store.CreateContent(ctx.Request.Context(), db.NewContent{
		SlideID:     data.Slide,
		ScreenID:    data.Screen,
		ContentType: contentType,
	}, write)
	if err != nil {
		return nil, api.FromError(err)
	}

	log.Info().
		Int("content_id", id).
		Int("slide_id", data.Slide).
		Int("screen_id", data.Screen).
		Int("user_id", user.ID).
		Msg("[admin] content uploaded")

	return api.Created{
		Location: fmt.Sprintf("/api/admin/content/%d", id),
		Body:     packets.CreatedResponse{ID: id},
	}, nil
}
