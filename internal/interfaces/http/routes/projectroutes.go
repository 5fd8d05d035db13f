package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/interfaces/http/handlers"
)

// ProjectRouteConfig holds dependencies for project routes.
type ProjectRouteConfig struct {
	ProjectHandler *handlers.ProjectHandler
}

// SetupProjectRoutes configures project CRUD and import routes.
func SetupProjectRoutes(api *gin.RouterGroup, cfg *ProjectRouteConfig) {
	projects := api.Group("/projects")
	{
		projects.POST("", cfg.ProjectHandler.Create)
		projects.GET("", cfg.ProjectHandler.List)
		projects.POST("/import", cfg.ProjectHandler.Import)
		projects.GET("/:projectID", cfg.ProjectHandler.Get)
		projects.GET("/:projectID/import/status", cfg.ProjectHandler.ImportStatus)
	}
}
