package endpoints

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

type ScreenController struct {
	store db.Store
}

func newScreenController(store db.Store) *ScreenController {
	return &ScreenController{store: store}
}

// ScreenModule mounts all authenticated /screen endpoints.
func ScreenModule(store db.Store) api.Module {
	ctl := newScreenController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screen", ctl.listScreens)
		c.POST("/screen", ctl.createScreen)
	})
}

// GET /api/admin/screen
func (s *ScreenController) listScreens(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	screens, err := s.store.ListScreens(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return screens, nil
}

// POST /api/admin/screen
func (s *ScreenController) createScreen(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	id, err := s.store.CreateScreen(ctx.Request.Context(), request.Name, request.Position)
	if err != nil {
		return nil, api.FromError(err)
	}

	return api.Created{
		Location: fmt.Sprintf("/api/admin/screen/%d", id),
		Body:     packets.CreatedResponse{ID: id},
	}, nil
}
