package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", model.ErrSlideGroupNotFound, http.StatusNotFound, "slide group not found"},
		{"archived", model.ErrSlideArchived, http.StatusForbidden, "slide is archived and can't be edited"},
		{"too large", model.ErrFileTooBig, http.StatusRequestEntityTooLarge, "file is too big"},
		{"invalid", &model.Error{Kind: model.KindInvalid, Message: "bad"}, http.StatusBadRequest, "bad"},
		{"wrapped domain error", fmt.Errorf("create slide: %w", model.ErrSlideGroupArchived), http.StatusForbidden, "slide group is archived and can't be edited"},
		{"api error passes through", BadRequest("nope"), http.StatusBadRequest, "nope"},
		{"internal", cause, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	assert.Nil(t, FromError(nil))
	assert.ErrorIs(t, FromError(cause).Err, cause)
}

func newRouter(modules ...Module) *gin.Engine {
	r := gin.New()
	MountGroup(r, GroupConfig{Prefix: "/api"}, modules...)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestResolveEndpoint(t *testing.T) {
	r := newRouter(ModuleFunc(func(c *Controller) {
		c.PUBLIC_POST("/ok", func(ctx *gin.Context) (any, *APIError) {
			return gin.H{"ok": true}, nil
		})
		c.PUBLIC_POST("/created", func(ctx *gin.Context) (any, *APIError) {
			return Created{Location: "/api/thing/7", Body: gin.H{"id": 7}}, nil
		})
		c.PUBLIC_POST("/empty", func(ctx *gin.Context) (any, *APIError) {
			return nil, nil
		})
		c.PUBLIC_POST("/fail", func(ctx *gin.Context) (any, *APIError) {
			return nil, FromError(errors.New("boom"))
		})
	}))

	w := do(r, http.MethodPost, "/api/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/created")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/thing/7", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/empty")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodPost, "/api/fail")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"msg":"internal server error"}`, w.Body.String())
}

func TestResolveEndpointWithAuthWithoutUser(t *testing.T) {
	called := false
	r := newRouter(ModuleFunc(func(c *Controller) {
		c.GET("/private", func(ctx *gin.Context, user *model.User) (any, *APIError) {
			called = true
			return nil, nil
		})
	}))

	w := do(r, http.MethodGet, "/api/private")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"unauthorized"}`, w.Body.String())
	assert.False(t, called)
}

func TestStreamRegistersRawHandler(t *testing.T) {
	r := newRouter(ModuleFunc(func(c *Controller) {
		c.STREAM("/raw", func(ctx *gin.Context) {
			ctx.String(http.StatusTeapot, "raw")
		})
	}))

	w := do(r, http.MethodGet, "/api/raw")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "raw", w.Body.String())
}
