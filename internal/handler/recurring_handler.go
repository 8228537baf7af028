package handler

import (
	"net/http"

	"invoicer/internal/middleware"
	"invoicer/internal/service"
	"invoicer/pkg/pagination"
	"invoicer/pkg/response"

	"github.com/gin-gonic/gin"
)

type RecurringInvoiceHandler struct {
	recurringService service.RecurringInvoiceService
}

func NewRecurringInvoiceHandler(recurringService service.RecurringInvoiceService) *RecurringInvoiceHandler {
	return &RecurringInvoiceHandler{recurringService: recurringService}
}

func (h *RecurringInvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	recurring := router.Group("/api/recurring-invoices")
	recurring.Use(middleware.RequireAuth())
	{
		recurring.POST("", h.Create)
		recurring.GET("", h.List)
		recurring.PUT("/:id/toggle", h.ToggleActive)
		recurring.POST("/:id/generate", h.GenerateNow)
		recurring.DELETE("/:id", h.Delete)
	}
}

// Create registers a new recurring invoice template
// @Summary      Create recurring invoice
// @Description  Creates a recurring template with a fixed-amount single-line snapshot; the next invoice date is computed from start date and frequency
// @Tags         recurring-invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRecurringInvoiceRequest  true  "Create Recurring Invoice Payload"
// @Success      201      {object}  response.Response{data=service.RecurringInvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/recurring-invoices [post]
func (h *RecurringInvoiceHandler) Create(c *gin.Context) {
	var req service.CreateRecurringInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rec, err := h.recurringService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rec))
}

// List returns a paginated list of recurring invoice templates
// @Summary      List recurring invoices
// @Tags         recurring-invoices
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/recurring-invoices [get]
func (h *RecurringInvoiceHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	recs, total, err := h.recurringService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, recs, total, params.Page, params.Limit))
}

// ToggleActive pauses or resumes a recurring template
// @Summary      Toggle recurring invoice
// @Tags         recurring-invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Recurring Invoice ID"
// @Success      200  {object}  response.Response{data=service.RecurringInvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/recurring-invoices/{id}/toggle [put]
func (h *RecurringInvoiceHandler) ToggleActive(c *gin.Context) {
	rec, err := h.recurringService.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// GenerateNow materializes the template into a concrete draft invoice
// @Summary      Generate invoice now
// @Description  Creates an invoice from the template snapshot and advances the schedule; the write is transactional, so the schedule never advances on failure
// @Tags         recurring-invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Recurring Invoice ID"
// @Success      201  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/recurring-invoices/{id}/generate [post]
func (h *RecurringInvoiceHandler) GenerateNow(c *gin.Context) {
	invoice, err := h.recurringService.GenerateNow(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// Delete removes a recurring invoice template
// @Summary      Delete recurring invoice
// @Tags         recurring-invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Recurring Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/recurring-invoices/{id} [delete]
func (h *RecurringInvoiceHandler) Delete(c *gin.Context) {
	if err := h.recurringService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
