package handler

import (
	"github.com/Luuiskame/cubicular-api/internal/application/service"
	"github.com/Luuiskame/cubicular-api/internal/i18n"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/dto/request"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/dto/response"
	"github.com/Luuiskame/cubicular-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles theme and language HTTP requests
type SettingsHandler struct {
	invoiceService *service.InvoiceService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(invoiceService *service.InvoiceService) *SettingsHandler {
	return &SettingsHandler{invoiceService: invoiceService}
}

// GetSettings returns the current theme and language along with the
// supported language codes
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	doc, _ := h.invoiceService.Document()
	response.OK(c, "Settings retrieved successfully", gin.H{
		"theme":     doc.Theme,
		"language":  doc.Language,
		"languages": i18n.Languages(),
	})
}

// UpdateSettings applies theme and language changes; empty fields keep
// their previous value
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	if req.PrimaryColor != "" || req.SecondaryColor != "" {
		h.invoiceService.SetTheme(req.PrimaryColor, req.SecondaryColor)
	}
	if req.Language != "" {
		h.invoiceService.SetLanguage(req.Language)
	}

	doc, _ := h.invoiceService.Document()
	response.OK(c, "Settings updated successfully", gin.H{
		"theme":    doc.Theme,
		"language": doc.Language,
	})
}
