// Package http wires the gin engine: middleware, health check, and the
// /api route groups.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/interfaces/http/handlers"
	"github.com/devvault/cockpit/internal/interfaces/http/middleware"
	"github.com/devvault/cockpit/internal/interfaces/http/routes"
	"github.com/devvault/cockpit/internal/shared/config"
	"github.com/devvault/cockpit/internal/shared/logger"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	GitHubHandler  *handlers.GitHubHandler
	ProjectHandler *handlers.ProjectHandler
	AdminHandler   *handlers.AdminHandler
}

// NewRouter builds the gin engine with middleware and all route groups.
func NewRouter(cfg *config.ServerConfig, log logger.Interface, deps RouterDeps) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	routes.SetupProjectRoutes(api, &routes.ProjectRouteConfig{
		ProjectHandler: deps.ProjectHandler,
	})
	routes.SetupGitRoutes(api, &routes.GitRouteConfig{
		GitHubHandler:  deps.GitHubHandler,
		ProjectHandler: deps.ProjectHandler,
	})
	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		AdminHandler: deps.AdminHandler,
	})

	return engine
}
