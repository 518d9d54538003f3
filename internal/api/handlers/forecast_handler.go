package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockcast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CacheInvalidator is implemented by forecasters that keep a cache
type CacheInvalidator interface {
	Invalidate(ctx context.Context, companyID string) error
}

type ForecastHandler struct {
	service service.Forecaster
}

func NewForecastHandler(service service.Forecaster) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// GetProductForecast handles GET /companies/:company_id/products/:sku
func (h *ForecastHandler) GetProductForecast(c *gin.Context) {
	companyID := strings.TrimSpace(c.Param("company_id"))
	sku := strings.TrimSpace(c.Param("sku"))
	if companyID == "" || sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id and sku are required"})
		return
	}

	days := h.service.DefaultForecastDays()
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	forecast, err := h.service.Forecast(c.Request.Context(), companyID, sku, days)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, forecast)
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, service.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not enough sales history to forecast this product"})
	default:
		log.Error().Err(err).Str("company_id", companyID).Str("sku", sku).Msg("forecast: product forecast failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate forecast"})
	}
}

// GetCompanySummary handles GET /companies/:company_id/summary
func (h *ForecastHandler) GetCompanySummary(c *gin.Context) {
	companyID := strings.TrimSpace(c.Param("company_id"))
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
		return
	}

	c.JSON(http.StatusOK, h.service.GenerateCompanyForecastSummary(c.Request.Context(), companyID))
}

// InvalidateCompany handles DELETE /companies/:company_id/cache
func (h *ForecastHandler) InvalidateCompany(c *gin.Context) {
	invalidator, ok := h.service.(CacheInvalidator)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	companyID := strings.TrimSpace(c.Param("company_id"))
	if err := invalidator.Invalidate(c.Request.Context(), companyID); err != nil {
		log.Error().Err(err).Str("company_id", companyID).Msg("forecast: cache invalidation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate forecast cache"})
		return
	}
	c.Status(http.StatusNoContent)
}
