package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/interfaces/http/handlers"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	AdminHandler *handlers.AdminHandler
}

// SetupAdminRoutes configures operational endpoints.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	admin := api.Group("/admin")
	{
		admin.POST("/oauth/states/purge", cfg.AdminHandler.PurgeOAuthStates)
	}
}
