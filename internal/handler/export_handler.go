package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// ExportHandler exposes compliance export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Request godoc
// @Summary Request a compliance export
// @Description Generates the statewide compliance ranking as CSV or PDF in the background.
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body object true "Export format"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Format string `json:"format" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format is required"))
		return
	}

	job, err := h.exports.Request(c.Request.Context(), service.ExportFormat(strings.ToLower(payload.Format)), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Export status
// @Description Returns the export state and, once completed, a signed download token.
// @Tags Exports
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.exports.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download an export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	data, name, err := h.exports.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv"
	if strings.HasSuffix(name, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, contentType, data)
}
