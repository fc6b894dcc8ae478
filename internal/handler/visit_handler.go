package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// VisitHandler exposes mentor visit endpoints.
type VisitHandler struct {
	visits *service.VisitService
}

// NewVisitHandler constructs handler.
func NewVisitHandler(visits *service.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// Record godoc
// @Summary Log a mentor visit
// @Description One visit per counted month. Late visits complete the obligation.
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.RecordVisitRequest true "Visit payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /internships/{id}/visits [post]
func (h *VisitHandler) Record(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	visit, err := h.visits.Record(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, visit)
}

// Timeline godoc
// @Summary Visit timeline for an internship
// @Tags Visits
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id}/visits/timeline [get]
func (h *VisitHandler) Timeline(c *gin.Context) {
	entries, err := h.visits.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
