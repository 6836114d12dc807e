package handler

import (
	"net/http"

	"github.com/Luuiskame/cubicular-api/internal/application/service"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/dto/response"
	"github.com/Luuiskame/cubicular-api/internal/presentation/render"
	"github.com/Luuiskame/cubicular-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// RenderHandler serves the two presentations of the invoice document: the
// interactive HTML view and the downloadable PDF export.
type RenderHandler struct {
	invoiceService *service.InvoiceService
	html           render.Renderer
	pdf            render.Renderer
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(invoiceService *service.InvoiceService, html, pdf render.Renderer) *RenderHandler {
	return &RenderHandler{
		invoiceService: invoiceService,
		html:           html,
		pdf:            pdf,
	}
}

// View renders the interactive on-screen form
func (h *RenderHandler) View(c *gin.Context) {
	export := h.invoiceService.BuildExport()
	out, err := h.html.Render(export.Document, export.Labels)
	if err != nil {
		response.Error(c, apperror.NewExportError(err))
		return
	}
	c.Data(http.StatusOK, h.html.ContentType(), out)
}

// Export renders the static export view as a point-in-time snapshot and
// streams it as a download. A renderer failure is recoverable: the in-memory
// document is untouched and the client can retry.
func (h *RenderHandler) Export(c *gin.Context) {
	export := h.invoiceService.BuildExport()
	out, err := h.pdf.Render(export.Document, export.Labels)
	if err != nil {
		response.Error(c, apperror.NewExportError(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, h.pdf.ContentType(), out)
}
