package endpoints

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type SlideController struct {
	store db.Store
}

func newSlideController(store db.Store) *SlideController {
	return &SlideController{store: store}
}

// SlideModule mounts all authenticated /slide endpoints.
func SlideModule(store db.Store) api.Module {
	ctl := newSlideController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/slide", ctl.createSlide)
		c.POST("/slide/bulk-move", ctl.bulkMove)
		c.DELETE("/slide/:id", ctl.archiveSlide)
	})
}

// POST /api/admin/slide
func (s *SlideController) createSlide(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateSlideRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	id, err := s.store.CreateSlide(ctx.Request.Context(), request.SlideGroup, request.Position)
	if err != nil {
		return nil, api.FromError(err)
	}

	return api.Created{
		Location: fmt.Sprintf("/api/admin/slide/%d", id),
		Body:     packets.CreatedResponse{ID: id},
	}, nil
}

// POST /api/admin/slide/bulk-move
func (s *SlideController) bulkMove(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.BulkMoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	positions := make(map[int]int, len(request.NewPositions))
	for key, position := range request.NewPositions {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, api.BadRequest(fmt.Sprintf("invalid slide id %q", key))
		}
		positions[id] = position
	}

	if err := s.store.MoveSlides(ctx.Request.Context(), positions); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// DELETE /api/admin/slide/:id
func (s *SlideController) archiveSlide(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, apiErr := idParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.store.ArchiveSlide(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}
