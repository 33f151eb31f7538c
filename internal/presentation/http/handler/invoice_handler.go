package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles invoice generation
// @Summary Create Invoice
// @Description Validate, price and render an invoice, then store it
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.InvoiceRequest true "Invoice content"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 504 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := invoiceInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.invoiceService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", generatedBody(out.Document, out.PDF, out.Filename, out.PageHeight))
}

// List handles listing invoices
// @Summary List Invoices
// @Description Get invoices visible to the caller, newest first
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Company name or invoice number"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	params, search := listParams(c)
	result, err := h.invoiceService.List(c.Request.Context(), actor, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice
// @Summary Get Invoice
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update handles updating an invoice
// @Summary Update Invoice
// @Description Replace invoice content; totals are recomputed
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body request.InvoiceRequest true "Invoice content"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := invoiceInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles deleting an invoice
// @Summary Delete Invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

// PDF renders a stored invoice and returns it base64 encoded
// @Summary Invoice PDF
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.invoiceService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendBase64(c, "Invoice PDF generated successfully", file)
}

// DownloadPDF renders a stored invoice as an application/pdf attachment
// @Summary Download Invoice PDF
// @Tags invoices
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Router /invoices/{id}/pdf/download [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.invoiceService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}

// Workbook exports a stored invoice as xlsx
// @Summary Invoice Spreadsheet
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Router /invoices/{id}/xlsx [get]
func (h *InvoiceHandler) Workbook(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.invoiceService.Workbook(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}
