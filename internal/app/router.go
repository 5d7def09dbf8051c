package app

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetsight/gasdash-backend/internal/middleware"
	"github.com/fleetsight/gasdash-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, requestLogger *middleware.RequestLogger) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		DashboardHandler: handlerset.Dashboard,
		SyncHandler:      handlerset.Sync,
		PolicyHandler:    handlerset.Policy,
		RequestLogger:    requestLogger,
		AllowOrigins:     cfg.AllowOrigins,
	})
}
