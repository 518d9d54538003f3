package service

import (
	"context"

	"github.com/andresuchdata/stockcast/backend-go/internal/cache"
	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Forecaster is the forecast surface consumed by the HTTP handlers and the CLI
type Forecaster interface {
	Forecast(ctx context.Context, companyID, sku string, forecastDays int) (*domain.EnhancedForecast, error)
	GenerateCompanyForecastSummary(ctx context.Context, companyID string) domain.CompanyForecastSummary
	DefaultForecastDays() int
}

var (
	_ Forecaster = (*ForecastService)(nil)
	_ Forecaster = (*CachedForecastService)(nil)
)

// CachedForecastService serves repeated requests from the forecast cache.
// Cache failures are logged and never fail a request.
type CachedForecastService struct {
	inner *ForecastService
	cache cache.ForecastCache
}

func NewCachedForecastService(inner *ForecastService, cacheImpl cache.ForecastCache) *CachedForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &CachedForecastService{inner: inner, cache: cacheImpl}
}

func (s *CachedForecastService) Forecast(ctx context.Context, companyID, sku string, forecastDays int) (*domain.EnhancedForecast, error) {
	days := s.inner.horizon(forecastDays)

	if cached, ok, err := s.cache.GetForecast(ctx, companyID, sku, days); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Str("sku", sku).Msg("forecast: cache get failed")
	}

	result, err := s.inner.Forecast(ctx, companyID, sku, days)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetForecast(ctx, companyID, sku, days, result); err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Str("sku", sku).Msg("forecast: cache set failed")
	}

	return result, nil
}

func (s *CachedForecastService) GenerateCompanyForecastSummary(ctx context.Context, companyID string) domain.CompanyForecastSummary {
	if cached, ok, err := s.cache.GetSummary(ctx, companyID); err == nil && ok {
		return *cached
	} else if err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Msg("forecast: cache get summary failed")
	}

	summary := s.inner.GenerateCompanyForecastSummary(ctx, companyID)

	// an empty summary may be a degraded one, keep recomputing it
	if summary.TotalProducts == 0 {
		return summary
	}

	if err := s.cache.SetSummary(ctx, companyID, &summary); err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Msg("forecast: cache set summary failed")
	}

	return summary
}

func (s *CachedForecastService) DefaultForecastDays() int {
	return s.inner.DefaultForecastDays()
}

// Invalidate drops every cached forecast of the company
func (s *CachedForecastService) Invalidate(ctx context.Context, companyID string) error {
	return s.cache.InvalidateCompany(ctx, companyID)
}
