package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devvault/cockpit/internal/application/project"
	"github.com/devvault/cockpit/internal/shared/errors"
	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils"
)

// ProjectHandler exposes project CRUD, git import, and identity endpoints.
type ProjectHandler struct {
	service ProjectService
	logger  logger.Interface
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.NewLogger(),
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

type ImportProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	GitURI      string `json:"gitUri" binding:"required"`
}

type SetIdentityRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create project", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.Create(c.Request.Context(), project.CreateCommand{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Project created successfully")
}

func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Get(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *ProjectHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Import creates the project and starts the asynchronous clone. The response
// carries the PENDING record; progress is polled via ImportStatus.
func (h *ProjectHandler) Import(c *gin.Context) {
	var req ImportProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for project import", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.ImportFromGit(c.Request.Context(), project.CreateCommand{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}, req.GitURI)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Import started")
}

func (h *ProjectHandler) ImportStatus(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ImportStatus(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// SetIdentity stores the git author identity and applies it to the local
// working copy when one exists.
func (h *ProjectHandler) SetIdentity(c *gin.Context) {
	projectID, err := parseProjectID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for set identity", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	message, err := h.service.SetIdentity(c.Request.Context(), projectID, req.Name, req.Email)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}
