package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	service GitService
	logger  logger.Interface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service GitService) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

// PurgeOAuthStates triggers the expired state purge on demand and reports
// how many rows were removed. The scheduled job runs the same purge.
func (h *AdminHandler) PurgeOAuthStates(c *gin.Context) {
	deleted, err := h.service.PurgeExpiredStates(c.Request.Context())
	if err != nil {
		h.logger.Errorw("manual oauth state purge failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, gin.H{"deletedCount": deleted})
}
