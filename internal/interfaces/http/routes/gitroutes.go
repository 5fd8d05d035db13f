package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/interfaces/http/handlers"
)

// GitRouteConfig holds dependencies for the GitHub connection routes.
type GitRouteConfig struct {
	GitHubHandler  *handlers.GitHubHandler
	ProjectHandler *handlers.ProjectHandler
}

// SetupGitRoutes configures the per-project GitHub connection routes.
func SetupGitRoutes(api *gin.RouterGroup, cfg *GitRouteConfig) {
	git := api.Group("/projects/:projectID/git")
	{
		git.GET("/github/authorize", cfg.GitHubHandler.Authorize)
		git.POST("/github/callback", cfg.GitHubHandler.Callback)
		git.GET("/connection", cfg.GitHubHandler.GetConnection)
		git.POST("/identity", cfg.ProjectHandler.SetIdentity)
	}
}
