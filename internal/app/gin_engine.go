package app

import (
	"marketplace/pkg/logger"
	"marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		logger.CorrelationMiddleware(),
		metrics.GinMiddleware(),
		logger.GinBodyLogger(),
		gin.Recovery(),
	)
	return engine
}
