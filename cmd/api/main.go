package main

import (
	"context"
	"net/http"

	"inkwell/auth"
	"inkwell/cmd/api/router"
	"inkwell/config"
	"inkwell/db"
	"inkwell/internal/logger"
	"inkwell/repositories"
	"inkwell/services"
	"inkwell/storage"
)

// @title           Inkwell API
// @version         1.0
// @description     Blog publishing API: drafts, publishing, likes and comments
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize mongo: %v", err)
		return
	}

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		logger.Log.Errorf("failed to initialize jwt: %v", err)
		return
	}

	// Image uploads are optional; without a bucket the API still runs and
	// rejects featured-image uploads with a validation error.
	var uploader storage.Uploader
	if cfg.Storage.Bucket != "" {
		uploader, err = storage.NewS3Uploader(ctx, cfg.Storage)
		if err != nil {
			logger.Log.Errorf("failed to initialize storage: %v", err)
			return
		}
	} else {
		logger.Log.Warn("no storage bucket configured, featured image uploads disabled")
	}

	database := db.Database()
	blogRepo := repositories.NewBlogRepository(database)
	blogQueries := repositories.NewBlogQueries(database)
	userRepo := repositories.NewUserRepository(database)

	blogSvc := services.NewBlogService(blogRepo, blogQueries, userRepo, uploader)
	authSvc := services.NewAuthService(userRepo, jwtManager)

	r := router.New(blogSvc, authSvc, jwtManager)

	addr := ":" + cfg.Server.Port
	logger.Log.Infof("listening on %s", addr)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("server stopped: %v", err)
	}
}
