package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/response"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create handles quotation generation
// @Summary Create Quotation
// @Description Validate, price and render a quotation, then store it
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.QuotationRequest true "Quotation content"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 504 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := quotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.quotationService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", generatedBody(out.Document, out.PDF, out.Filename, out.PageHeight))
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get quotations visible to the caller, newest first
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Company name or quotation number"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	params, search := listParams(c)
	result, err := h.quotationService.List(c.Request.Context(), actor, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
// @Summary Get Quotation
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Update handles updating a quotation
// @Summary Update Quotation
// @Description Replace quotation content; totals are recomputed
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.QuotationRequest true "Quotation content"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := quotationInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation deleted successfully", nil)
}

// PDF renders a stored quotation and returns it base64 encoded
// @Summary Quotation PDF
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.quotationService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendBase64(c, "Quotation PDF generated successfully", file)
}

// DownloadPDF renders a stored quotation as an application/pdf attachment
// @Summary Download Quotation PDF
// @Tags quotations
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Quotation ID"
// @Router /quotations/{id}/pdf/download [get]
func (h *QuotationHandler) DownloadPDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.quotationService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}

// Workbook exports a stored quotation as xlsx
// @Summary Quotation Spreadsheet
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Router /quotations/{id}/xlsx [get]
func (h *QuotationHandler) Workbook(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.quotationService.Workbook(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}
