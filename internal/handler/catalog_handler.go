package handler

import (
	"net/http"
	"strconv"

	"invoicer/internal/middleware"
	"invoicer/internal/service"
	"invoicer/pkg/pagination"
	"invoicer/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/catalog-items")
	items.Use(middleware.RequireAuth())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

// CreateItem creates a reusable line item
// @Summary      Create catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCatalogItemRequest  true  "Create Catalog Item Payload"
// @Success      201      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog-items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems returns catalog items, optionally filtered by category
// @Summary      List catalog items
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        active    query     bool    false  "Only active items"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/catalog-items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	items, total, err := h.catalogService.ListItems(c.Request.Context(), c.Query("category"), activeOnly, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, params.Page, params.Limit))
}

// UpdateItem updates a catalog item
// @Summary      Update catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Catalog Item ID"
// @Param        payload  body      service.UpdateCatalogItemRequest  true  "Update Catalog Item Payload"
// @Success      200      {object}  response.Response{data=service.CatalogItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/catalog-items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes a catalog item
// @Summary      Delete catalog item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Catalog Item ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/catalog-items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
