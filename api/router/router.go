package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"linkedin-poster/api/handlers"
	"linkedin-poster/api/middleware"
	"linkedin-poster/services"
	"linkedin-poster/session"
)

func New(svc *services.PosterService, store *session.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/sessions", handlers.CreateSessionHandler(store))
		api.POST("/generate", handlers.GenerateHandler(svc, store))
		api.POST("/publish", handlers.PublishHandler(svc, store))
		api.GET("/article", handlers.GetArticleHandler(store))
		api.PUT("/article", handlers.UpdateArticleHandler(store))
		api.GET("/logs", handlers.LogsHandler(store))
		api.GET("/meta", handlers.MetaHandler(svc))
	}

	return r
}
