package handlers

import (
	"errors"
	"io"
	"net/http"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionFactory builds the submission that finalises one wizard's draft
// for a user.
type SubmissionFactory func(userID uuid.UUID) services.Submission

type WizardsHandler struct {
	controller  *wizard.Controller
	coordinator *services.Coordinator
	submissions map[string]SubmissionFactory
}

// NewWizardsHandler wires the step controller and the submission coordinator.
// Wizards missing from submissions can be navigated but not submitted.
func NewWizardsHandler(controller *wizard.Controller, coordinator *services.Coordinator, submissions map[string]SubmissionFactory) *WizardsHandler {
	return &WizardsHandler{
		controller:  controller,
		coordinator: coordinator,
		submissions: submissions,
	}
}

var persistFailureMessages = map[string]string{
	wizard.GigCreation:            "Failed to create project",
	wizard.ProfessionalOnboarding: "Failed to save profile",
	wizard.ClientOnboarding:       "Failed to save company profile",
}

// ListWizards godoc
// @Summary     List wizards
// @Description Returns every wizard with its ordered steps
// @Tags        wizards
// @Produce     json
// @Security    Bearer
// @Success     200 {array} wizard.Definition
// @Router      /wizards [get]
func (h *WizardsHandler) ListWizards(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Registry().All())
}

// EnterStep godoc
// @Summary     Enter a wizard step
// @Description Returns the step with the current draft. Entering the first step starts a draft; any other step without a draft answers 409 with the step to restart from.
// @Tags        wizards
// @Produce     json
// @Security    Bearer
// @Param       wizard path  string true  "Wizard id"
// @Param       step   path  string true  "Step name"
// @Param       draft  query string false "Entity id or client draft id"
// @Success     200 {object} wizard.StepView
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /wizards/{wizard}/steps/{step} [get]
func (h *WizardsHandler) EnterStep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.controller.Enter(c.Request.Context(), draftKey(c, c.Param("wizard"), userID), c.Param("step"))
	if err != nil {
		writeError(c, err, "failed to load step")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ContinueStep godoc
// @Summary     Continue from a step
// @Description Validates the step's fields, saves them to the draft and returns the next step
// @Tags        wizards
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       wizard  path  string             true  "Wizard id"
// @Param       step    path  string             true  "Step name"
// @Param       draft   query string             false "Entity id or client draft id"
// @Param       request body  models.StepRequest true  "Step fields"
// @Success     200 {object} wizard.Transition
// @Failure     422 {object} models.ErrorResponse
// @Router      /wizards/{wizard}/steps/{step}/continue [post]
func (h *WizardsHandler) ContinueStep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := bindStep(c)
	if !ok {
		return
	}

	next, err := h.controller.Continue(c.Request.Context(), draftKey(c, c.Param("wizard"), userID), c.Param("step"), req.Fields)
	if err != nil {
		writeError(c, err, "failed to save step")
		return
	}
	c.JSON(http.StatusOK, next)
}

// BackStep godoc
// @Summary     Go back from a step
// @Description Saves any fields sent without validating them and returns the previous step, or the wizard's exit route from the first step
// @Tags        wizards
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       wizard  path  string             true  "Wizard id"
// @Param       step    path  string             true  "Step name"
// @Param       draft   query string             false "Entity id or client draft id"
// @Param       request body  models.StepRequest false "Step fields"
// @Success     200 {object} wizard.Transition
// @Failure     409 {object} models.ErrorResponse
// @Router      /wizards/{wizard}/steps/{step}/back [post]
func (h *WizardsHandler) BackStep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := bindStep(c)
	if !ok {
		return
	}

	prev, err := h.controller.Back(c.Request.Context(), draftKey(c, c.Param("wizard"), userID), c.Param("step"), req.Fields)
	if err != nil {
		writeError(c, err, "failed to save step")
		return
	}
	c.JSON(http.StatusOK, prev)
}

// SkipStep godoc
// @Summary     Skip an optional step
// @Tags        wizards
// @Produce     json
// @Security    Bearer
// @Param       wizard path  string true  "Wizard id"
// @Param       step   path  string true  "Step name"
// @Param       draft  query string false "Entity id or client draft id"
// @Success     200 {object} wizard.Transition
// @Failure     400 {object} models.ErrorResponse
// @Router      /wizards/{wizard}/steps/{step}/skip [post]
func (h *WizardsHandler) SkipStep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	next, err := h.controller.Skip(c.Request.Context(), draftKey(c, c.Param("wizard"), userID), c.Param("step"))
	if err != nil {
		writeError(c, err, "failed to skip step")
		return
	}
	c.JSON(http.StatusOK, next)
}

// DiscardDraft godoc
// @Summary     Discard a draft
// @Description Clears the draft so the wizard starts over
// @Tags        wizards
// @Security    Bearer
// @Param       wizard path  string true  "Wizard id"
// @Param       draft  query string false "Entity id or client draft id"
// @Success     204
// @Router      /wizards/{wizard}/draft [delete]
func (h *WizardsHandler) DiscardDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.controller.Discard(c.Request.Context(), draftKey(c, c.Param("wizard"), userID)); err != nil {
		writeError(c, err, "failed to discard draft")
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit godoc
// @Summary     Submit a wizard
// @Description Turns the draft into a saved record. The draft is kept on any failure and cleared on success.
// @Tags        wizards
// @Produce     json
// @Security    Bearer
// @Param       wizard path  string true  "Wizard id"
// @Param       draft  query string false "Entity id or client draft id"
// @Success     201 {object} services.SubmissionResult
// @Failure     409 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /wizards/{wizard}/submit [post]
func (h *WizardsHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wizardID := c.Param("wizard")
	def, err := h.controller.Registry().Get(wizardID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	newSubmission, ok := h.submissions[wizardID]
	if !ok {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database not available"})
		return
	}

	result, err := h.coordinator.Submit(c.Request.Context(), draftKey(c, wizardID, userID), newSubmission(userID), def.SuccessRedirect)
	if err != nil {
		if errors.Is(err, drafts.ErrNotFound) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:       "draft not found",
				RestartStep: def.First().Name,
			})
			return
		}
		writeError(c, err, persistFailureMessages[wizardID])
		return
	}
	c.JSON(http.StatusCreated, result)
}

// bindStep reads an optional step body. An empty body means no fields.
func bindStep(c *gin.Context) (models.StepRequest, bool) {
	var req models.StepRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return req, false
	}
	return req, true
}
