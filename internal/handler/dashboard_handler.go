package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/models"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// DashboardHandler exposes the role-scoped dashboards.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// State godoc
// @Summary Statewide dashboard
// @Description Aggregated compliance with worst-first institution ranking.
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboards/state [get]
func (h *DashboardHandler) State(c *gin.Context) {
	resp, err := h.dashboards.State(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Principal godoc
// @Summary Institution dashboard
// @Description Compliance, overdue counts and the attention list for one institution.
// @Tags Dashboards
// @Produce json
// @Param institutionId query string false "Institution ID (state users only)"
// @Success 200 {object} response.Envelope
// @Router /dashboards/principal [get]
func (h *DashboardHandler) Principal(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	institutionID := c.Query("institutionId")
	if claims.Role != models.RoleState {
		if claims.InstitutionID == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "user has no institution"))
			return
		}
		institutionID = *claims.InstitutionID
	}
	if institutionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "institutionId is required"))
		return
	}

	resp, err := h.dashboards.Principal(c.Request.Context(), institutionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Faculty godoc
// @Summary Faculty visit workload dashboard
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboards/faculty [get]
func (h *DashboardHandler) Faculty(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.dashboards.Faculty(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Student godoc
// @Summary Student progress dashboard
// @Tags Dashboards
// @Produce json
// @Param studentId query string false "Student ID (staff only)"
// @Success 200 {object} response.Envelope
// @Router /dashboards/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	studentID := c.Query("studentId")
	if claims.Role == models.RoleStudent || studentID == "" {
		studentID = claims.UserID
	}

	resp, err := h.dashboards.Student(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
