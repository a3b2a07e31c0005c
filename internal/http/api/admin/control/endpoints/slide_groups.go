package endpoints

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type SlideGroupController struct {
	store db.Store
}

func newSlideGroupController(store db.Store) *SlideGroupController {
	return &SlideGroupController{store: store}
}

// SlideGroupModule mounts all authenticated /slide-group endpoints.
func SlideGroupModule(store db.Store) api.Module {
	ctl := newSlideGroupController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/slide-group", ctl.listSlideGroups)
		c.POST("/slide-group", ctl.createSlideGroup)
		c.GET("/slide-group/:id", ctl.getSlideGroup)
		c.PUT("/slide-group/:id", ctl.updateSlideGroup)
		c.PUT("/slide-group/:id/publish", ctl.publishSlideGroup)
		c.DELETE("/slide-group/:id", ctl.archiveSlideGroup)
	})
}

func fieldsFrom(request packets.SlideGroupRequest) model.SlideGroupFields {
	return model.SlideGroupFields{
		Title:     request.Title,
		Priority:  request.Priority,
		Hidden:    request.Hidden,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
	}
}

// GET /api/admin/slide-group
func (g *SlideGroupController) listSlideGroups(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	groups, err := g.store.ListSlideGroups(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return groups, nil
}

// GET /api/admin/slide-group/:id
func (g *SlideGroupController) getSlideGroup(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, apiErr := idParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	group, err := g.store.GetSlideGroup(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(err)
	}
	return group, nil
}

// POST /api/admin/slide-group
func (g *SlideGroupController) createSlideGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.SlideGroupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	id, err := g.store.CreateSlideGroup(ctx.Request.Context(), fieldsFrom(request), user.DisplayName())
	if err != nil {
		return nil, api.FromError(err)
	}

	log.Info().Int("slide_group_id", id).Int("user_id", user.ID).Msg("[admin] slide group created")
	return api.Created{
		Location: fmt.Sprintf("/api/admin/slide-group/%d", id),
		Body:     packets.CreatedResponse{ID: id},
	}, nil
}

// PUT /api/admin/slide-group/:id
func (g *SlideGroupController) updateSlideGroup(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, apiErr := idParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SlideGroupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	if err := g.store.UpdateSlideGroup(ctx.Request.Context(), id, fieldsFrom(request)); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// PUT /api/admin/slide-group/:id/publish
func (g *SlideGroupController) publishSlideGroup(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, apiErr := idParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := g.store.PublishSlideGroup(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// DELETE /api/admin/slide-group/:id
func (g *SlideGroupController) archiveSlideGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := idParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := g.store.ArchiveSlideGroup(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}

	log.Info().Int("slide_group_id", id).Int("user_id", user.ID).Msg("[admin] slide group archived")
	return nil, nil
}
