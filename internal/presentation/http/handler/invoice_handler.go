package handler

import (
	"github.com/Luuiskame/cubicular-api/internal/application/service"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/dto/request"
	"github.com/Luuiskame/cubicular-api/internal/presentation/http/dto/response"
	"github.com/Luuiskame/cubicular-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice-document HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// GetInvoice returns the resolved document together with its computed totals
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	doc, totals := h.invoiceService.Document()
	response.OK(c, "Invoice retrieved successfully", gin.H{
		"document": doc,
		"totals":   totals.Rounded(),
	})
}

// UpdateCompany applies a keyed update to one company field
func (h *InvoiceHandler) UpdateCompany(c *gin.Context) {
	var req request.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	company := h.invoiceService.UpdateCompanyField(req.Field, req.Value)
	response.OK(c, "Company updated successfully", company)
}

// UpdateClient applies a keyed update to one client field
func (h *InvoiceHandler) UpdateClient(c *gin.Context) {
	var req request.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	client := h.invoiceService.UpdateClientField(req.Field, req.Value)
	response.OK(c, "Client updated successfully", client)
}

// UpdateMeta applies a keyed update to the title, extra info, notes,
// currency, or logo field
func (h *InvoiceHandler) UpdateMeta(c *gin.Context) {
	var req request.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	h.invoiceService.UpdateMetaField(req.Field, req.Value)
	doc, _ := h.invoiceService.Document()
	response.OK(c, "Invoice updated successfully", doc)
}

// AddItem appends a fresh line item and returns the updated list
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	items := h.invoiceService.AddItem()
	response.Created(c, "Item added successfully", items)
}

// UpdateItem applies a keyed update to one line item field
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	var req request.ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	items := h.invoiceService.UpdateItem(c.Param("id"), req.Field, req.Value)
	response.OK(c, "Item updated successfully", items)
}

// RemoveItem deletes one line item; removing an unknown id is a no-op
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	items := h.invoiceService.RemoveItem(c.Param("id"))
	response.OK(c, "Item removed successfully", items)
}

// SetAdjustment shows or updates the discount or tax
func (h *InvoiceHandler) SetAdjustment(c *gin.Context) {
	var req request.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	adj, ok := h.invoiceService.SetAdjustment(c.Param("kind"), req.Label, req.Value)
	if !ok {
		response.Error(c, apperror.NewNotFoundError("Adjustment kind"))
		return
	}
	response.OK(c, "Adjustment updated successfully", adj)
}

// RemoveAdjustment hides the discount or tax, clearing its stored value
func (h *InvoiceHandler) RemoveAdjustment(c *gin.Context) {
	if !h.invoiceService.RemoveAdjustment(c.Param("kind")) {
		response.Error(c, apperror.NewNotFoundError("Adjustment kind"))
		return
	}
	response.NoContent(c)
}
