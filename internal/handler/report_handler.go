package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// ReportHandler exposes monthly report endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SaveDraft godoc
// @Summary Save a monthly report draft
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.SaveReportDraftRequest true "Draft payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /internships/{id}/reports/draft [put]
func (h *ReportHandler) SaveDraft(c *gin.Context) {
	var req dto.SaveReportDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.SaveDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Submit godoc
// @Summary Submit a monthly report
// @Description Submission approves the report. Late submissions are accepted and the lateness recorded.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.SubmitReportRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /internships/{id}/reports/submit [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Timeline godoc
// @Summary Report timeline for an internship
// @Description Every counted month with its due date and current state.
// @Tags Reports
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id}/reports/timeline [get]
func (h *ReportHandler) Timeline(c *gin.Context) {
	entries, err := h.reports.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
