package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"gigexecs-backend/internal/middleware"
	"gigexecs-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const clickTrackingTimeout = 30 * time.Second

type ClickTracker interface {
	TrackExternalGigClick(ctx context.Context, token string, projectID int64, source string) error
}

type ExternalGigsHandler struct {
	tracker ClickTracker
	logger  *log.Logger
}

func NewExternalGigsHandler(tracker ClickTracker, logger *log.Logger) *ExternalGigsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ExternalGigsHandler{tracker: tracker, logger: logger}
}

// TrackClick godoc
// @Summary     Record a click on an external gig
// @Description Analytics only. The click is recorded in the background and the endpoint answers 202 even if recording fails.
// @Tags        external-gigs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path int                            true "External gig ID"
// @Param       request body models.ExternalGigClickRequest true "Where the click happened"
// @Success     202 {object} models.StatusResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /external-gigs/{id}/click [post]
func (h *ExternalGigsHandler) TrackClick(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	gigID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || gigID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid gig id"})
		return
	}

	var req models.ExternalGigClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	token := c.GetString(middleware.AccessTokenKey)
	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, clickTrackingTimeout)
		defer cancel()
		if err := h.tracker.TrackExternalGigClick(ctx, token, gigID, req.ClickSource); err != nil {
			h.logger.Printf("failed to track click on external gig %d: %v", gigID, err)
		}
	}()

	c.JSON(http.StatusAccepted, models.StatusResponse{Status: "accepted"})
}
