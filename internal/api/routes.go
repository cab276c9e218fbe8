// Package api exposes the collection pipeline over HTTP.
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"DevInsights/internal/logging"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, logger *slog.Logger) *gin.Engine {
	logger = logging.OrDiscard(logger)
	router := gin.New()

	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))

	router.GET("/health", handler.HealthCheck)
	router.GET("/github-users", handler.GetGithubUsers)

	return router
}
