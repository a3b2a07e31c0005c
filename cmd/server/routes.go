package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/lobby/internal/config"
	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/control/endpoints"
	authapi "github.com/Nixie-Tech-LLC/lobby/internal/http/api/admin/auth/endpoints"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/api/files"
	clientapi "github.com/Nixie-Tech-LLC/lobby/internal/http/api/tv/endpoints"
	"github.com/Nixie-Tech-LLC/lobby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
	"github.com/Nixie-Tech-LLC/lobby/internal/storage"
)

// Dependencies are the services the routes are built from.
type Dependencies struct {
	// Shutdown ends open feed streams.
	Shutdown context.Context
	Config   *config.Config
	Store    db.Store
	Storage  storage.Storage
	Local    *storage.LocalStorage
	Feeds    clientapi.FeedSource
	Metrics  *metrics.Metrics
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	r.Use(middleware.RequestID(), middleware.RequestLogger())
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"Cache-Control",
			"If-None-Match",
			middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
			"Location",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, deps.Store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     deps.Store,
	},
		// control modules
		adminapi.ScreenModule(deps.Store),
		adminapi.SlideGroupModule(deps.Store),
		adminapi.SlideModule(deps.Store),
		adminapi.ContentModule(deps.Store, deps.Storage, cfg.Uploads.MaxSize),
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, deps.Store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.FeedModule(deps.Shutdown, deps.Feeds, cfg.Feed.TickInterval, deps.Metrics),
	)

	// Static content
	if deps.Local != nil {
		r.GET("/uploads/*path", files.ServeUploads(deps.Local))
	}
}
