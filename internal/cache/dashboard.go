// Package cache keeps recently computed dashboard payloads in Redis.
// Aggregation reads tolerate slightly stale snapshots, so a short TTL is
// enough to take recomputation off the hot path.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const dashboardTTL = 30 * time.Second

type Dashboard struct {
	client *redis.Client
}

// NewDashboard connects to Redis. With an empty addr the cache is disabled
// and Get always misses.
func NewDashboard(addr string) *Dashboard {
	if addr == "" {
		return &Dashboard{}
	}
	return &Dashboard{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (d *Dashboard) Enabled() bool { return d.client != nil }

// Get unmarshals a cached payload into dest. Returns false on miss, decode
// failure, or a disabled cache.
func (d *Dashboard) Get(ctx context.Context, key string, dest interface{}) bool {
	if d.client == nil {
		return false
	}
	raw, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores the payload best-effort; cache failures never fail the request.
func (d *Dashboard) Set(ctx context.Context, key string, value interface{}) {
	if d.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	d.client.Set(ctx, key, raw, dashboardTTL)
}

func (d *Dashboard) Close() error {
	if d.client == nil {
		return nil
	}
	return d.client.Close()
}
