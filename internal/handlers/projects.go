package handlers

import (
	"context"
	"net/http"

	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectsHandler struct {
	projects *services.ProjectService
}

func NewProjectsHandler(projects *services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns the projects created by the authenticated user
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {array} services.ProjectView
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.projects.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetProject godoc
// @Summary     Get project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} services.ProjectView
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	view, err := h.projects.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		writeError(c, err, "failed to get project")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProject godoc
// @Summary     Update project
// @Description Applies the gig edit form. Budget and duration are derived as in the creation wizard.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string                       true "Project ID"
// @Param       request    body services.UpdateProjectInput  true "Project fields"
// @Success     200 {object} services.ProjectView
// @Failure     409 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /projects/{project_id} [put]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req services.UpdateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	view, err := h.projects.Update(c.Request.Context(), userID, projectID, req)
	if err != nil {
		writeError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListBids godoc
// @Summary     List bids on a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {array} models.Bid
// @Router      /projects/{project_id}/bids [get]
func (h *ProjectsHandler) ListBids(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	bids, err := h.projects.ListBids(c.Request.Context(), userID, projectID)
	if err != nil {
		writeError(c, err, "failed to list bids")
		return
	}
	c.JSON(http.StatusOK, bids)
}

// AwardBid godoc
// @Summary     Award a bid
// @Description Creates an active contract, moves the project to in_progress and accepts the bid
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Param       bid_id     path string true "Bid ID"
// @Success     201 {object} models.ContractResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_id}/bids/{bid_id}/award [post]
func (h *ProjectsHandler) AwardBid(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	bidID, ok := pathUUID(c, "bid_id")
	if !ok {
		return
	}

	contractID, err := h.projects.AwardBid(c.Request.Context(), userID, projectID, bidID)
	if err != nil {
		writeError(c, err, "Failed to award bid")
		return
	}
	c.JSON(http.StatusCreated, models.ContractResponse{
		ContractID: contractID.String(),
		Status:     models.ContractActive,
	})
}

// CompleteProject godoc
// @Summary     Mark a project completed
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.StatusResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_id}/complete [post]
func (h *ProjectsHandler) CompleteProject(c *gin.Context) {
	h.changeStatus(c, models.ProjectCompleted, h.projects.Complete)
}

// CancelProject godoc
// @Summary     Cancel a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.StatusResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_id}/cancel [post]
func (h *ProjectsHandler) CancelProject(c *gin.Context) {
	h.changeStatus(c, models.ProjectCancelled, h.projects.Cancel)
}

func (h *ProjectsHandler) changeStatus(c *gin.Context, to models.ProjectStatus, apply func(ctx context.Context, userID, projectID uuid.UUID) error) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), userID, projectID); err != nil {
		writeError(c, err, "Failed to update project status")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: string(to)})
}
