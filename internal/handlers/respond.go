package handlers

import (
	"errors"
	"net/http"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/functions"
	"gigexecs-backend/internal/middleware"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	userIDStr, _ := raw.(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

// draftKey scopes a wizard draft to the caller. ?draft= names the entity being
// edited or a client-generated id for a parallel new flow.
func draftKey(c *gin.Context, wizardID string, userID uuid.UUID) drafts.Key {
	return drafts.NewKey(wizardID, userID.String(), c.Query("draft"))
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP responses. message is used for
// failures of the primary write, where the cause is not the user's to fix.
func writeError(c *gin.Context, err error, message string) {
	var (
		validation *wizard.ValidationError
		restart    *wizard.RestartError
		persist    *services.PersistenceError
		transition *services.TransitionError
		rejected   *services.UploadRejectedError
		fnErr      *functions.Error
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:  "validation failed",
			Fields: validation.Fields,
		})
	case errors.As(err, &restart):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:       "draft not found",
			Message:     restart.Error(),
			RestartStep: restart.Step,
		})
	case services.IsInputError(err):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "invalid submission",
			Message: err.Error(),
			Fields:  inputFields(err),
		})
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: rejected.Reason})
	case errors.As(err, &persist):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: message, Message: persist.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "invalid status change", Message: transition.Error()})
	case errors.As(err, &fnErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: message, Message: fnErr.Message})
	case errors.Is(err, drafts.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "draft not found"})
	case errors.Is(err, wizard.ErrUnknownWizard), errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, services.ErrProjectNotFound), errors.Is(err, services.ErrBidNotFound),
		errors.Is(err, services.ErrUnknownUploadKind):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, wizard.ErrStepNotSkippable):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotProjectOwner), errors.Is(err, services.ErrNotFileOwner):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrBidNotPending):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message, Message: err.Error()})
	}
}

func inputFields(err error) map[string]string {
	var (
		missing      *services.MissingFieldError
		invalid      *services.InvalidNumberError
		shape        *services.InvalidFieldError
		unresolvable *services.UnresolvableReferenceError
	)
	switch {
	case errors.As(err, &missing):
		return map[string]string{missing.Field: "required"}
	case errors.As(err, &invalid):
		return map[string]string{invalid.Field: "must be a positive number"}
	case errors.As(err, &shape):
		return map[string]string{shape.Field: shape.Reason}
	case errors.As(err, &unresolvable):
		return map[string]string{string(unresolvable.Kind): "unknown value " + unresolvable.Value}
	}
	return nil
}
