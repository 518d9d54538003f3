package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/config"
	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/andresuchdata/stockcast/backend-go/internal/forecast"
	"github.com/andresuchdata/stockcast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// MinSalesRows is the fewest historical sales rows a SKU needs before it is forecast
const MinSalesRows = 5

var (
	// ErrInsufficientData means the SKU does not have enough history to forecast yet
	ErrInsufficientData = errors.New("insufficient sales history")
	// ErrProductNotFound means the SKU is not part of the company's current inventory
	ErrProductNotFound = errors.New("product not found in current inventory")
)

// ForecastService computes demand forecasts from the sales and inventory collaborators.
// It is safe for concurrent use.
type ForecastService struct {
	sales     repository.SalesRepository
	inventory repository.InventoryRepository
	engine    *forecast.Engine
	cfg       config.ForecastConfig
	now       func() time.Time
}

// Option customises a ForecastService
type Option func(*ForecastService)

// WithClock overrides the clock used to stamp forecasts and anchor the horizon
func WithClock(now func() time.Time) Option {
	return func(s *ForecastService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewForecastService(sales repository.SalesRepository, inventory repository.InventoryRepository, cfg config.ForecastConfig, opts ...Option) *ForecastService {
	defaults := config.DefaultForecastConfig()
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = defaults.DefaultDays
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = defaults.MaxDays
	}
	if cfg.MaxProducts <= 0 {
		cfg.MaxProducts = defaults.MaxProducts
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	s := &ForecastService{
		sales:     sales,
		inventory: inventory,
		engine:    forecast.NewEngine(cfg.LeadTimeDays),
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateEnhancedForecast returns the forecast for a SKU, or nil when the SKU
// cannot be forecast. Missing products, short histories and upstream failures
// all resolve to nil; upstream failures are logged.
func (s *ForecastService) GenerateEnhancedForecast(ctx context.Context, companyID, sku string, forecastDays int) *domain.EnhancedForecast {
	result, err := s.Forecast(ctx, companyID, sku, forecastDays)
	if err != nil {
		logForecastError(err, companyID, sku)
		return nil
	}
	return result
}

// Forecast is GenerateEnhancedForecast with the reason for a missing forecast
// kept. It returns ErrProductNotFound, ErrInsufficientData or a wrapped
// collaborator error.
func (s *ForecastService) Forecast(ctx context.Context, companyID, sku string, forecastDays int) (*domain.EnhancedForecast, error) {
	items, err := s.inventory.GetCurrentInventory(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("fetch current inventory: %w", err)
	}

	item, ok := findItem(items, sku)
	if !ok {
		return nil, ErrProductNotFound
	}

	return s.forecastItem(ctx, companyID, item, s.horizon(forecastDays), s.now())
}

// DefaultForecastDays is the horizon used when a caller does not pass one
func (s *ForecastService) DefaultForecastDays() int {
	return s.cfg.DefaultDays
}

func (s *ForecastService) forecastItem(ctx context.Context, companyID string, item domain.InventoryItem, days int, now time.Time) (*domain.EnhancedForecast, error) {
	rows, err := s.sales.GetSalesHistory(ctx, companyID, item.SKU)
	if err != nil {
		return nil, fmt.Errorf("fetch sales history: %w", err)
	}

	if len(rows) < MinSalesRows {
		return nil, ErrInsufficientData
	}

	return s.engine.Build(forecast.Input{
		CompanyID:    companyID,
		Item:         item,
		History:      rows,
		ForecastDays: days,
		Now:          now,
	}), nil
}

// horizon applies the default and the configured cap to a requested horizon
func (s *ForecastService) horizon(days int) int {
	if days <= 0 {
		return s.cfg.DefaultDays
	}
	if days > s.cfg.MaxDays {
		return s.cfg.MaxDays
	}
	return days
}

func findItem(items []domain.InventoryItem, sku string) (domain.InventoryItem, bool) {
	for _, item := range items {
		if item.SKU == sku {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}

// IsNotForecastable reports whether err is one of the soft outcomes that mean
// "no forecast yet" rather than a failure.
func IsNotForecastable(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrProductNotFound)
}

func logForecastError(err error, companyID, sku string) {
	if IsNotForecastable(err) {
		log.Debug().Err(err).Str("company_id", companyID).Str("sku", sku).Msg("forecast: sku not forecastable")
		return
	}
	log.Error().Err(err).Str("company_id", companyID).Str("sku", sku).Msg("forecast: failed to generate forecast")
}
