package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-compliance-api/internal/service"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/response"
)

// LetterHandler exposes joining letter upload and download endpoints.
type LetterHandler struct {
	letters *service.LetterService
}

// NewLetterHandler constructs handler.
func NewLetterHandler(letters *service.LetterService) *LetterHandler {
	return &LetterHandler{letters: letters}
}

// Upload godoc
// @Summary Upload a joining letter
// @Description Stores the letter and marks the internship as documented.
// @Tags Letters
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Internship ID"
// @Param file formData file true "Letter file"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /internships/{id}/letter [post]
func (h *LetterHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	internship, err := h.letters.Upload(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
		claims,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}

// DownloadURL godoc
// @Summary Get a signed letter download URL
// @Tags Letters
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /internships/{id}/letter/url [get]
func (h *LetterHandler) DownloadURL(c *gin.Context) {
	signed, err := h.letters.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signed, nil)
}

// Download godoc
// @Summary Download a joining letter via signed token
// @Tags Letters
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /letters/download [get]
func (h *LetterHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	reader, name, err := h.letters.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", reader, nil)
}
