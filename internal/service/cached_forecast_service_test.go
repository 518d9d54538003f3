package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/andresuchdata/stockcast/backend-go/internal/config"
	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	forecasts   map[string]*domain.EnhancedForecast
	summaries   map[string]*domain.CompanyForecastSummary
	getErr      error
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		forecasts: make(map[string]*domain.EnhancedForecast),
		summaries: make(map[string]*domain.CompanyForecastSummary),
	}
}

func forecastKey(companyID, sku string, days int) string {
	return fmt.Sprintf("%s|%s|%d", companyID, sku, days)
}

func (m *memoryCache) GetForecast(ctx context.Context, companyID, sku string, days int) (*domain.EnhancedForecast, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	f, ok := m.forecasts[forecastKey(companyID, sku, days)]
	return f, ok, nil
}

func (m *memoryCache) SetForecast(ctx context.Context, companyID, sku string, days int, forecast *domain.EnhancedForecast) error {
	m.forecasts[forecastKey(companyID, sku, days)] = forecast
	return nil
}

func (m *memoryCache) GetSummary(ctx context.Context, companyID string) (*domain.CompanyForecastSummary, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	s, ok := m.summaries[companyID]
	return s, ok, nil
}

func (m *memoryCache) SetSummary(ctx context.Context, companyID string, summary *domain.CompanyForecastSummary) error {
	m.summaries[companyID] = summary
	return nil
}

func (m *memoryCache) InvalidateCompany(ctx context.Context, companyID string) error {
	m.invalidated = append(m.invalidated, companyID)
	return nil
}

func TestCachedForecastServiceServesFromCache(t *testing.T) {
	sales := &fakeSales{history: map[string][]domain.SalesRow{"SKU-1": rowsFrom(flat(60, 10))}}
	inventory := &fakeInventory{items: []domain.InventoryItem{{SKU: "SKU-1", InventoryQuantity: 100}}}
	memory := newMemoryCache()
	svc := NewCachedForecastService(newTestService(sales, inventory, config.DefaultForecastConfig()), memory)

	first, err := svc.Forecast(context.Background(), "c1", "SKU-1", 30)
	require.NoError(t, err)
	second, err := svc.Forecast(context.Background(), "c1", "SKU-1", 30)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, sales.calls)
	assert.Len(t, memory.forecasts, 1)
}

func TestCachedForecastServiceNormalizesHorizon(t *testing.T) {
	sales := &fakeSales{history: map[string][]domain.SalesRow{"SKU-1": rowsFrom(flat(60, 10))}}
	inventory := &fakeInventory{items: []domain.InventoryItem{{SKU: "SKU-1", InventoryQuantity: 100}}}
	memory := newMemoryCache()
	svc := NewCachedForecastService(newTestService(sales, inventory, config.DefaultForecastConfig()), memory)

	_, err := svc.Forecast(context.Background(), "c1", "SKU-1", 0)
	require.NoError(t, err)
	_, err = svc.Forecast(context.Background(), "c1", "SKU-1", 90)
	require.NoError(t, err)

	assert.Equal(t, 1, sales.calls)
}

func TestCachedForecastServiceDoesNotCacheErrors(t *testing.T) {
	inventory := &fakeInventory{items: []domain.InventoryItem{{SKU: "SKU-1"}}}
	memory := newMemoryCache()
	svc := NewCachedForecastService(newTestService(&fakeSales{}, inventory, config.DefaultForecastConfig()), memory)

	_, err := svc.Forecast(context.Background(), "c1", "SKU-1", 30)

	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Empty(t, memory.forecasts)
}

func TestCachedForecastServiceIgnoresCacheFailures(t *testing.T) {
	sales := &fakeSales{history: map[string][]domain.SalesRow{"SKU-1": rowsFrom(flat(60, 10))}}
	inventory := &fakeInventory{items: []domain.InventoryItem{{SKU: "SKU-1", InventoryQuantity: 100}}}
	memory := newMemoryCache()
	memory.getErr = errors.New("redis unavailable")
	svc := NewCachedForecastService(newTestService(sales, inventory, config.DefaultForecastConfig()), memory)

	result, err := svc.Forecast(context.Background(), "c1", "SKU-1", 30)

	require.NoError(t, err)
	assert.Equal(t, "SKU-1", result.SKU)
}

func TestCachedForecastServiceSummary(t *testing.T) {
	sales := &fakeSales{history: map[string][]domain.SalesRow{"SKU-1": rowsFrom(flat(60, 10))}}
	inventory := &fakeInventory{items: []domain.InventoryItem{{SKU: "SKU-1", InventoryQuantity: 100}}}
	memory := newMemoryCache()
	svc := NewCachedForecastService(newTestService(sales, inventory, config.DefaultForecastConfig()), memory)

	first := svc.GenerateCompanyForecastSummary(context.Background(), "c1")
	second := svc.GenerateCompanyForecastSummary(context.Background(), "c1")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, sales.calls)

	require.NoError(t, svc.Invalidate(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, memory.invalidated)
}

func TestCachedForecastServiceSkipsEmptySummaries(t *testing.T) {
	memory := newMemoryCache()
	svc := NewCachedForecastService(newTestService(&fakeSales{}, &fakeInventory{err: errors.New("down")}, config.DefaultForecastConfig()), memory)

	summary := svc.GenerateCompanyForecastSummary(context.Background(), "c1")

	assert.Equal(t, 0, summary.TotalProducts)
	assert.Empty(t, memory.summaries)
}
