package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

const (
	reportKeyPrefix     = "smartgestion:report"
	reportScanBatchSize = 100
)

// ReportCache keeps the last computed report so repeated dashboard reads
// return the same forecast until the next refresh.
type ReportCache interface {
	GetReport(ctx context.Context, key string) (*domain.Report, bool, error)
	SetReport(ctx context.Context, key string, report *domain.Report) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{
		client: client,
		ttl:    reportTTL(cfg),
	}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, key string) (*domain.Report, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, key string, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, reportScanBatchSize)
}

func (n *noopReportCache) GetReport(ctx context.Context, key string) (*domain.Report, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, key string, report *domain.Report) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(key string) string {
	if key == "" {
		key = "default"
	}
	return fmt.Sprintf("%s:%s", reportKeyPrefix, key)
}
