package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

const defaultAlertStateKey = "smartgestion:alerts:signature"

// AlertStateStore remembers the signature of the last notified alert set
type AlertStateStore interface {
	LoadSignature(ctx context.Context) (string, error)
	SaveSignature(ctx context.Context, signature string) error
}

type redisAlertStateStore struct {
	client *redis.Client
	key    string
}

type memoryAlertStateStore struct {
	mu        sync.Mutex
	signature string
}

// NewAlertStateStore returns a redis backed store when the cache is enabled,
// an in-process one otherwise.
func NewAlertStateStore(cfg config.CacheConfig) (AlertStateStore, error) {
	if !cfg.Enabled {
		return NewMemoryAlertStateStore(), nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	key := cfg.AlertStateKey
	if key == "" {
		key = defaultAlertStateKey
	}
	return &redisAlertStateStore{client: client, key: key}, nil
}

func NewMemoryAlertStateStore() AlertStateStore {
	return &memoryAlertStateStore{}
}

func (s *redisAlertStateStore) LoadSignature(ctx context.Context) (string, error) {
	sig, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return sig, nil
}

func (s *redisAlertStateStore) SaveSignature(ctx context.Context, signature string) error {
	if err := s.client.Set(ctx, s.key, signature, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *memoryAlertStateStore) LoadSignature(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signature, nil
}

func (s *memoryAlertStateStore) SaveSignature(ctx context.Context, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signature = signature
	return nil
}

// AlertSignature hashes the ids and counts of the notifiable alerts. Alerts
// without a count (sales-drop) are signed by their delta in 10-point buckets,
// so small week-to-week moves do not notify again. It is empty when no alert
// is notifiable, and independent of alert order.
func AlertSignature(alerts []domain.Alert) string {
	parts := []string{}
	for _, a := range alerts {
		if !a.Type.Notifiable() {
			continue
		}
		parts = append(parts, a.ID+"="+alertMagnitude(a))
	}

	if len(parts) == 0 {
		return ""
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func alertMagnitude(a domain.Alert) string {
	if count, ok := a.Data["count"]; ok {
		return fmt.Sprintf("%v", count)
	}
	if delta, ok := a.Data["delta"].(float64); ok {
		return fmt.Sprintf("delta%d", int(math.Floor(delta/10))*10)
	}
	return ""
}
