// Package server exposes the engine over HTTP.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/example/duelengine/internal/duel"
	"github.com/example/duelengine/internal/energy"
	"github.com/example/duelengine/internal/logger"
	"github.com/example/duelengine/internal/practice"
)

// NewRouter wires all engine endpoints onto a gin engine.
func NewRouter(log *logger.Logger, builder *practice.Builder, gate *energy.Gate, registry *duel.Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	practiceHandler := NewPracticeHandler(log, builder)
	energyHandler := NewEnergyHandler(log, gate)
	duelHandler := NewDuelHandler(log, registry)

	api := router.Group("/api")
	{
		api.GET("/practice-set", practiceHandler.GetPracticeSet)

		api.POST("/hearts/check", energyHandler.CheckHearts)
		api.POST("/hearts/consume", energyHandler.ConsumeHeart)

		api.POST("/duel/start", duelHandler.Start)
		api.POST("/duel/:roomID/join", duelHandler.Join)
		api.GET("/duel/:roomID/question", duelHandler.Question)
		api.POST("/duel/:roomID/answer", duelHandler.Answer)
		api.GET("/duel/:roomID/result", duelHandler.Result)
		api.POST("/duel/:roomID/cleanup", duelHandler.Cleanup)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
