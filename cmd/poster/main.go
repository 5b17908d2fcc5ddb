package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"linkedin-poster/api/router"
	"linkedin-poster/config"
	"linkedin-poster/generator"
	"linkedin-poster/linkedin"
	"linkedin-poster/logger"
	"linkedin-poster/services"
	"linkedin-poster/session"
)

// @title           LinkedIn Article Poster API
// @version         1.0
// @description     Generate articles with Gemini and publish them as LinkedIn organization posts
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	if os.Getenv("LOG_LEVEL") != "" {
		logger.InitFromEnv("LOG_LEVEL")
	} else {
		logger.Init(cfg.Logging.Level)
	}

	gemini := generator.NewClient(
		generator.GeminiBackend{},
		cfg.Generation.MaxRetries,
		time.Duration(cfg.Generation.BackoffSeconds)*time.Second,
	)
	li := linkedin.NewClient(
		cfg.LinkedIn.APIBase,
		linkedin.WithTimeouts(
			time.Duration(cfg.LinkedIn.ResolveTimeoutSeconds)*time.Second,
			time.Duration(cfg.LinkedIn.PublishTimeoutSeconds)*time.Second,
		),
	)

	svc := services.NewPosterService(services.Config{
		DefaultModel:    cfg.Generation.Model,
		Models:          cfg.Generation.Models,
		DryRunDefault:   cfg.Article.DryRunDefault,
		DefaultSavePath: cfg.Article.DefaultSavePath,
	}, gemini, li)
	store := session.NewStore()

	r := router.New(svc, store)
	handler := cors.Default().Handler(r)

	logger.Log.Infof("starting server on %s", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, handler); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
