package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fleetsight/gasdash-backend/internal/handlers"
	"github.com/fleetsight/gasdash-backend/internal/middleware"
)

type RouterConfig struct {
	DashboardHandler *handlers.DashboardHandler
	SyncHandler      *handlers.SyncHandler
	PolicyHandler    *handlers.PolicyHandler
	RequestLogger    *middleware.RequestLogger
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/dashboard/cards", cfg.DashboardHandler.Cards)
		api.GET("/history", cfg.DashboardHandler.History)

		api.POST("/sync", cfg.SyncHandler.Trigger)
		api.GET("/sync/orphans", cfg.SyncHandler.Orphans)

		policy := api.Group("/policy")
		{
			policy.GET("/defaults", cfg.PolicyHandler.ListDefaults)
			policy.POST("/defaults", cfg.PolicyHandler.CreateDefault)
			policy.DELETE("/defaults/:id", cfg.PolicyHandler.DeleteDefault)

			policy.GET("/exceptions", cfg.PolicyHandler.ListExceptions)
			policy.POST("/exceptions", cfg.PolicyHandler.UpsertException)
			policy.POST("/exceptions/upload", cfg.PolicyHandler.UploadExceptionsCSV)

			policy.GET("/valve-groups", cfg.PolicyHandler.ListValveGroups)
		}
	}

	return router
}
