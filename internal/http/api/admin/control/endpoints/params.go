package endpoints

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
)

func idParam(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, api.BadRequest("invalid id")
	}
	return id, nil
}
