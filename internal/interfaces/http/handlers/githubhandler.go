package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/shared/errors"
	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils"
)

// GitHubHandler exposes the OAuth connection endpoints for a project.
type GitHubHandler struct {
	service GitService
	logger  logger.Interface
}

// NewGitHubHandler creates a new GitHubHandler.
func NewGitHubHandler(service GitService) *GitHubHandler {
	return &GitHubHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

func parseProjectID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("projectID"), 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("invalid project id")
	}
	return uint(id), nil
}

// Authorize starts the OAuth flow: issues a state and returns the provider
// authorization URL for the frontend to redirect to.
func (h *GitHubHandler) Authorize(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Authorize(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Callback completes the OAuth flow with the code and state returned by the
// provider redirect.
func (h *GitHubHandler) Callback(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	code := c.Query("code")
	state := c.Query("state")

	result, err := h.service.HandleCallback(c.Request.Context(), projectID, code, state)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// GetConnection returns the project's stored connection without the token.
func (h *GitHubHandler) GetConnection(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ConnectionForProject(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if result == nil {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no connection for project"))
		return
	}

	utils.OKResponse(c, result)
}
