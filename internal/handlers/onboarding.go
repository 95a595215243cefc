package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gigexecs-backend/internal/functions"
	"gigexecs-backend/internal/middleware"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/wizard"

	"github.com/gin-gonic/gin"
)

type CVParser interface {
	ParseCV(ctx context.Context, token, sourceFileID string) (*functions.ParsedCV, error)
}

type OnboardingHandler struct {
	controller *wizard.Controller
	parser     CVParser
}

func NewOnboardingHandler(controller *wizard.Controller, parser CVParser) *OnboardingHandler {
	return &OnboardingHandler{controller: controller, parser: parser}
}

// ImportCV godoc
// @Summary     Import a CV into the onboarding draft
// @Description Parses an uploaded CV and fills the professional onboarding draft with the name, headline, summary and work history found in it
// @Tags        wizards
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       draft   query string                 false "Client draft id"
// @Param       request body  models.CVImportRequest true  "Uploaded CV"
// @Success     200 {object} wizard.Transition
// @Failure     502 {object} models.ErrorResponse
// @Router      /wizards/professional_onboarding/cv-import [post]
func (h *OnboardingHandler) ImportCV(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CVImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	parsed, err := h.parser.ParseCV(c.Request.Context(), c.GetString(middleware.AccessTokenKey), req.SourceFileID)
	if err != nil {
		writeError(c, err, "failed to parse CV")
		return
	}

	fields, err := cvFields(parsed)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to parse CV", Message: err.Error()})
		return
	}

	key := draftKey(c, wizard.ProfessionalOnboarding, userID)
	if err := h.controller.Hydrate(c.Request.Context(), key, fields); err != nil {
		writeError(c, err, "failed to save draft")
		return
	}
	c.JSON(http.StatusOK, wizard.Transition{Step: "basic_info"})
}

// cvFields maps parsed CV data onto onboarding draft fields. Values the
// parser did not find are left out so they do not overwrite the draft.
func cvFields(cv *functions.ParsedCV) (map[string]json.RawMessage, error) {
	values := map[string]any{"method": "cv"}
	setText := func(field, value string) {
		if value = strings.TrimSpace(value); value != "" {
			values[field] = value
		}
	}
	setText("firstName", cv.BasicInfo.FirstName)
	setText("lastName", cv.BasicInfo.LastName)
	setText("headline", cv.BasicInfo.Headline)
	setText("bio", cv.Summary)

	if len(cv.WorkExperience) > 0 {
		entries := make([]models.WorkExperienceEntry, 0, len(cv.WorkExperience))
		for _, e := range cv.WorkExperience {
			entries = append(entries, models.WorkExperienceEntry{
				Company:          strings.TrimSpace(e.Company),
				JobTitle:         strings.TrimSpace(e.JobTitle),
				Description:      e.Description,
				City:             e.City,
				StartMonth:       e.StartMonth(),
				StartYear:        e.StartDateYear,
				EndMonth:         e.EndMonth(),
				EndYear:          e.EndDateYear,
				CurrentlyWorking: e.CurrentlyWorking,
			})
		}
		values["workExperience"] = entries
	}

	fields := make(map[string]json.RawMessage, len(values))
	for name, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[name] = raw
	}
	return fields, nil
}
