package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// ConfigurationHandler exposes compliance threshold configuration endpoints.
type ConfigurationHandler struct {
	configurations *service.ConfigurationService
}

// NewConfigurationHandler constructs handler.
func NewConfigurationHandler(configurations *service.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configurations: configurations}
}

// List godoc
// @Summary List compliance thresholds
// @Description Every tunable threshold with its effective value.
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /configurations [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	items, err := h.configurations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Update one compliance threshold
// @Description The candidate configuration must validate as a whole; invalid values are rejected, never clamped.
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.UpdateConfigurationRequest true "Threshold payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /configurations [put]
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req dto.UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.configurations.Update(c.Request.Context(), req.Key, req.Value, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// BulkUpdate godoc
// @Summary Update several compliance thresholds atomically
// @Description Tier boundaries that are only consistent together must move together.
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpdateConfigurationRequest true "Thresholds payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /configurations/bulk [put]
func (h *ConfigurationHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	items, err := h.configurations.BulkUpdate(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
