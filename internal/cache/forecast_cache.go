package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/config"
	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	forecastKeyPrefix     = "forecast"
	forecastScanBatchSize = 100
)

// ForecastCache stores computed forecasts and company summaries for a short TTL
type ForecastCache interface {
	GetForecast(ctx context.Context, companyID, sku string, days int) (*domain.EnhancedForecast, bool, error)
	SetForecast(ctx context.Context, companyID, sku string, days int, forecast *domain.EnhancedForecast) error
	GetSummary(ctx context.Context, companyID string) (*domain.CompanyForecastSummary, bool, error)
	SetSummary(ctx context.Context, companyID string, summary *domain.CompanyForecastSummary) error
	InvalidateCompany(ctx context.Context, companyID string) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, companyID, sku string, days int) (*domain.EnhancedForecast, bool, error) {
	var forecast domain.EnhancedForecast
	ok, err := c.get(ctx, buildForecastKey(companyID, sku, days), &forecast)
	if err != nil || !ok {
		return nil, false, err
	}
	return &forecast, true, nil
}

func (c *redisForecastCache) SetForecast(ctx context.Context, companyID, sku string, days int, forecast *domain.EnhancedForecast) error {
	return c.set(ctx, buildForecastKey(companyID, sku, days), forecast)
}

func (c *redisForecastCache) GetSummary(ctx context.Context, companyID string) (*domain.CompanyForecastSummary, bool, error) {
	var summary domain.CompanyForecastSummary
	ok, err := c.get(ctx, buildSummaryKey(companyID), &summary)
	if err != nil || !ok {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *redisForecastCache) SetSummary(ctx context.Context, companyID string, summary *domain.CompanyForecastSummary) error {
	return c.set(ctx, buildSummaryKey(companyID), summary)
}

func (c *redisForecastCache) InvalidateCompany(ctx context.Context, companyID string) error {
	return deleteKeysWithPrefix(ctx, c.client, companyKeyPrefix(companyID), forecastScanBatchSize)
}

func (c *redisForecastCache) get(ctx context.Context, key string, out interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode forecast cache %s: %w", key, err)
	}
	return true, nil
}

func (c *redisForecastCache) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode forecast cache %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopForecastCache) GetForecast(ctx context.Context, companyID, sku string, days int) (*domain.EnhancedForecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecast(ctx context.Context, companyID, sku string, days int, forecast *domain.EnhancedForecast) error {
	return nil
}

func (n *noopForecastCache) GetSummary(ctx context.Context, companyID string) (*domain.CompanyForecastSummary, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetSummary(ctx context.Context, companyID string, summary *domain.CompanyForecastSummary) error {
	return nil
}

func (n *noopForecastCache) InvalidateCompany(ctx context.Context, companyID string) error {
	return nil
}

// companyKeyPrefix scopes every key of a company so it can be dropped in one scan.
// The company id is hashed so ids containing glob characters cannot widen the scan.
func companyKeyPrefix(companyID string) string {
	hash := sha1.Sum([]byte(companyID))
	return fmt.Sprintf("%s:%s:", forecastKeyPrefix, hex.EncodeToString(hash[:]))
}

func buildForecastKey(companyID, sku string, days int) string {
	hash := sha1.Sum([]byte(sku + "|" + strconv.Itoa(days)))
	return companyKeyPrefix(companyID) + "sku:" + hex.EncodeToString(hash[:])
}

func buildSummaryKey(companyID string) string {
	return companyKeyPrefix(companyID) + "summary"
}
