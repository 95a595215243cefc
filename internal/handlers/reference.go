package handlers

import (
	"net/http"

	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/reference"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	catalog *reference.Catalog
}

func NewReferenceHandler(catalog *reference.Catalog) *ReferenceHandler {
	return &ReferenceHandler{catalog: catalog}
}

// ListReferences godoc
// @Summary     List reference data
// @Description Returns skills, industries, countries or languages ordered by name. q filters by name, case-insensitively.
// @Tags        reference
// @Produce     json
// @Security    Bearer
// @Param       kind path  string true  "skill, industry, country or language"
// @Param       q    query string false "Name filter"
// @Success     200 {object} models.ReferenceListResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /reference/{kind} [get]
func (h *ReferenceHandler) ListReferences(c *gin.Context) {
	kind := models.ReferenceKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown reference kind"})
		return
	}

	items, err := h.catalog.Search(c.Request.Context(), kind, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to load reference data", Message: err.Error()})
		return
	}
	if items == nil {
		items = []models.EntityReference{}
	}
	c.JSON(http.StatusOK, models.ReferenceListResponse{Kind: kind, Items: items})
}
