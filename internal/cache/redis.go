// Package cache implements short-lived Redis caching of synthesized
// payloads. Redis is never a datastore here: every entry expires and the
// service runs unchanged without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/iceplantengineering/paperplant/internal/models"
)

const (
	// KPISnapshotKey holds the latest KPI snapshot.
	KPISnapshotKey = "dashboard:kpis"
	// JourneyKeyPrefix prefixes per-lot journey timelines.
	JourneyKeyPrefix = "journey:"
	// JourneyCounterKey counts journeys synthesized across restarts.
	JourneyCounterKey = "counters:journeys"
	// SearchCounterKey counts traceability searches across restarts.
	SearchCounterKey = "counters:searches"
	// SummaryTTL keeps dashboard payloads just long enough to absorb
	// refresh-timer bursts from many open clients.
	SummaryTTL = 10 * time.Second
	// JourneyTTL keeps a lot journey stable across repeated lookups.
	JourneyTTL = 5 * time.Minute
)

// RedisCache wraps the Redis client used for response caching.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ctx:    ctx,
	}, nil
}

// CacheKPISnapshot stores the latest KPI snapshot.
func (r *RedisCache) CacheKPISnapshot(kpis map[string]models.KPIMetric) error {
	return r.SetWithTTL(KPISnapshotKey, kpis, SummaryTTL)
}

// GetKPISnapshot returns the cached KPI snapshot, if any.
func (r *RedisCache) GetKPISnapshot() (map[string]models.KPIMetric, error) {
	var kpis map[string]models.KPIMetric
	if err := r.Get(KPISnapshotKey, &kpis); err != nil {
		return nil, err
	}
	return kpis, nil
}

// CacheJourney stores a lot journey so repeated lookups within the TTL see
// the same timeline.
func (r *RedisCache) CacheJourney(lotID string, timeline []models.TimelineEvent) error {
	return r.SetWithTTL(JourneyKeyPrefix+lotID, timeline, JourneyTTL)
}

// GetJourney returns the cached journey for a lot, if any.
func (r *RedisCache) GetJourney(lotID string) ([]models.TimelineEvent, error) {
	var timeline []models.TimelineEvent
	if err := r.Get(JourneyKeyPrefix+lotID, &timeline); err != nil {
		return nil, err
	}
	return timeline, nil
}

// IncrementCounter increments a service counter.
func (r *RedisCache) IncrementCounter(key string) (int64, error) {
	return r.client.Incr(r.ctx, key).Result()
}

// GetCounter returns a service counter, 0 when unset.
func (r *RedisCache) GetCounter(key string) (int64, error) {
	val, err := r.client.Get(r.ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// SetWithTTL stores a JSON-encoded value with an expiry.
func (r *RedisCache) SetWithTTL(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, key, data, ttl).Err()
}

// Get fetches a key and decodes it into dest. Returns redis.Nil on a miss.
func (r *RedisCache) Get(key string, dest interface{}) error {
	data, err := r.client.Get(r.ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// IsMiss reports whether an error from Get is a plain cache miss.
func IsMiss(err error) bool {
	return err == redis.Nil
}

// Ping verifies the Redis connection.
func (r *RedisCache) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

// Close closes the connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
