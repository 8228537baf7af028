package handler

import (
	"net/http"
	"strconv"

	"invoicer/internal/middleware"
	"invoicer/internal/service"
	"invoicer/pkg/response"

	"github.com/gin-gonic/gin"
)

type CurrencyHandler struct {
	currencyService service.CurrencyService
}

func NewCurrencyHandler(currencyService service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

func (h *CurrencyHandler) RegisterRoutes(router *gin.RouterGroup) {
	currency := router.Group("/api/currency")
	currency.Use(middleware.RequireAuth())
	{
		currency.GET("/rates", h.GetRates)
		currency.GET("/convert", h.Convert)
	}
}

// GetRates returns the USD-based exchange rate table
// @Summary      Get exchange rates
// @Tags         currency
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.RatesResponse}
// @Router       /api/currency/rates [get]
func (h *CurrencyHandler) GetRates(c *gin.Context) {
	rates := h.currencyService.GetRates(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// Convert converts an amount between two currencies
// @Summary      Convert amount
// @Tags         currency
// @Security     BearerAuth
// @Produce      json
// @Param        amount  query     number  true  "Amount to convert"
// @Param        from    query     string  true  "Source currency code"
// @Param        to      query     string  true  "Target currency code"
// @Success      200     {object}  response.Response{data=service.ConversionResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/currency/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid amount parameter"))
		return
	}

	result, err := h.currencyService.Convert(c.Request.Context(), amount, c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
