package handlers

import (
	"context"
	"net/http"
	"time"

	"gigexecs-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	dependencyUp       = "up"
	dependencyDown     = "down"
	dependencyDisabled = "disabled"
)

// Pinger is a dependency the health check can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	draftBackend string
	drafts       Pinger
	database     Pinger
	timeout      time.Duration
}

// NewHealthHandler reports on the draft store and the project database. A nil
// database means submissions were never enabled.
func NewHealthHandler(draftBackend string, drafts Pinger, database Pinger) *HealthHandler {
	return &HealthHandler{
		draftBackend: draftBackend,
		drafts:       drafts,
		database:     database,
		timeout:      2 * time.Second,
	}
}

// Health godoc
// @Summary     Health check
// @Description Reports whether drafts can be saved and wizards submitted. Answers 503 when a configured dependency is down.
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Failure     503 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := models.HealthResponse{
		Status:     "ok",
		DraftStore: h.draftBackend,
		Drafts:     ping(ctx, h.drafts),
		Database:   ping(ctx, h.database),
	}

	status := http.StatusOK
	if response.Drafts == dependencyDown || response.Database == dependencyDown {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return dependencyDisabled
	}
	if err := p.Ping(ctx); err != nil {
		return dependencyDown
	}
	return dependencyUp
}
