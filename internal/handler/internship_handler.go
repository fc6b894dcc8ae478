package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// InternshipHandler exposes internship lifecycle endpoints.
type InternshipHandler struct {
	internships *service.InternshipService
}

// NewInternshipHandler constructs handler.
func NewInternshipHandler(internships *service.InternshipService) *InternshipHandler {
	return &InternshipHandler{internships: internships}
}

// List godoc
// @Summary List internships
// @Tags Internships
// @Produce json
// @Param institutionId query string false "Filter by institution"
// @Param studentId query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /internships [get]
func (h *InternshipHandler) List(c *gin.Context) {
	filter := models.InternshipFilter{
		InstitutionID: c.Query("institutionId"),
		StudentID:     c.Query("studentId"),
	}
	if status := c.Query("status"); status != "" {
		s := models.InternshipStatus(status)
		filter.Status = &s
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if claims := claimsFromContext(c); claims != nil && claims.Role != models.RoleState && claims.InstitutionID != nil {
		filter.InstitutionID = *claims.InstitutionID
	}

	internships, total, err := h.internships.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, internships, pagination)
}

// Get godoc
// @Summary Get internship by ID
// @Tags Internships
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id} [get]
func (h *InternshipHandler) Get(c *gin.Context) {
	internship, err := h.internships.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}

// Create godoc
// @Summary Register internship
// @Description Register an internship for a student. One active internship per student.
// @Tags Internships
// @Accept json
// @Produce json
// @Param payload body dto.CreateInternshipRequest true "Internship payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /internships [post]
func (h *InternshipHandler) Create(c *gin.Context) {
	var req dto.CreateInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	internship, err := h.internships.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, internship)
}

// UpdateMentor godoc
// @Summary Replace or deactivate the industry mentor
// @Tags Internships
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.UpdateMentorRequest true "Mentor payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id}/mentor [put]
func (h *InternshipHandler) UpdateMentor(c *gin.Context) {
	var req dto.UpdateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	internship, err := h.internships.UpdateMentor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}

// Complete godoc
// @Summary Close an internship
// @Tags Internships
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.CompleteInternshipRequest true "Completion payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /internships/{id}/complete [post]
func (h *InternshipHandler) Complete(c *gin.Context) {
	var req dto.CompleteInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	internship, err := h.internships.Complete(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}
