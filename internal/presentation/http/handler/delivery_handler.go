package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/response"
)

// DeliveryHandler handles delivery note-related HTTP requests
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new delivery note handler
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// Create handles delivery note generation
// @Summary Create Delivery Note
// @Description Render a delivery note signed by the caller, then store it
// @Tags deliveries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.DeliveryRequest true "Delivery note content"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 504 {object} response.APIResponse
// @Router /deliveries [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req request.DeliveryRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := deliveryInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.deliveryService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery note created successfully", generatedBody(out.Document, out.PDF, out.Filename, out.PageHeight))
}

// List handles listing delivery notes
// @Summary List Delivery Notes
// @Description Get delivery notes visible to the caller, newest first
// @Tags deliveries
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Company name or delivery number"
// @Success 200 {object} response.APIResponse
// @Router /deliveries [get]
func (h *DeliveryHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	params, search := listParams(c)
	result, err := h.deliveryService.List(c.Request.Context(), actor, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Delivery notes retrieved successfully", result)
}

// Get handles getting a single delivery note
// @Summary Get Delivery Note
// @Tags deliveries
// @Security BearerAuth
// @Produce json
// @Param id path string true "Delivery note ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	note, err := h.deliveryService.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery note retrieved successfully", note)
}

// Update handles updating a delivery note
// @Summary Update Delivery Note
// @Description Replace delivery note content and re-sign it
// @Tags deliveries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Delivery note ID"
// @Param request body request.DeliveryRequest true "Delivery note content"
// @Success 200 {object} response.APIResponse
// @Router /deliveries/{id} [put]
func (h *DeliveryHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.DeliveryRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := deliveryInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	note, err := h.deliveryService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery note updated successfully", note)
}

// Delete handles deleting a delivery note
// @Summary Delete Delivery Note
// @Tags deliveries
// @Security BearerAuth
// @Param id path string true "Delivery note ID"
// @Success 200 {object} response.APIResponse
// @Router /deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery note deleted successfully", nil)
}

// PDF renders a stored delivery note and returns it base64 encoded
// @Summary Delivery Note PDF
// @Tags deliveries
// @Security BearerAuth
// @Produce json
// @Param id path string true "Delivery note ID"
// @Success 200 {object} response.APIResponse
// @Router /deliveries/{id}/pdf [get]
func (h *DeliveryHandler) PDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.deliveryService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendBase64(c, "Delivery note PDF generated successfully", file)
}

// DownloadPDF renders a stored delivery note as an application/pdf attachment
// @Summary Download Delivery Note PDF
// @Tags deliveries
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Delivery note ID"
// @Router /deliveries/{id}/pdf/download [get]
func (h *DeliveryHandler) DownloadPDF(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.deliveryService.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}

// Workbook exports a stored delivery note as xlsx
// @Summary Delivery Note Spreadsheet
// @Tags deliveries
// @Security BearerAuth
// @Param id path string true "Delivery note ID"
// @Router /deliveries/{id}/xlsx [get]
func (h *DeliveryHandler) Workbook(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := h.deliveryService.Workbook(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendAttachment(c, file)
}
