package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/models"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// ComplianceHandler exposes compliance score endpoints.
type ComplianceHandler struct {
	compliance *service.ComplianceService
}

// NewComplianceHandler constructs handler.
func NewComplianceHandler(compliance *service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

// Overall godoc
// @Summary Statewide compliance summary
// @Tags Compliance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /compliance/overall [get]
func (h *ComplianceHandler) Overall(c *gin.Context) {
	summary, err := h.compliance.Overall(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Ranking godoc
// @Summary Institution compliance ranking
// @Description Every institution with its score, sorted worst-first.
// @Tags Compliance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /compliance/ranking [get]
func (h *ComplianceHandler) Ranking(c *gin.Context) {
	ranking, err := h.compliance.Ranking(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// ForInstitution godoc
// @Summary One institution's compliance summary
// @Tags Compliance
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /compliance/institutions/{id} [get]
func (h *ComplianceHandler) ForInstitution(c *gin.Context) {
	institutionID := c.Param("id")
	if claims := claimsFromContext(c); claims != nil && claims.Role != models.RoleState {
		if claims.InstitutionID == nil || *claims.InstitutionID != institutionID {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
	}

	summary, err := h.compliance.ForInstitution(c.Request.Context(), institutionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
