package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// DefaultMirrorKey is the Redis key holding the mirrored snapshot.
const DefaultMirrorKey = "catalog:snapshot:v1"

// SourceMirror is the Source of snapshots read back from the mirror.
const SourceMirror = "mirror"

var (
	// ErrCacheMiss indicates the mirror holds no snapshot
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the mirrored snapshot is corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Mirror stores the last good snapshot in Redis.
type Mirror struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

// NewMirror creates a Redis mirror. A ttl of zero keeps the copy forever.
func NewMirror(redisClient *redis.Client, ttl time.Duration) *Mirror {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Mirror{
		redis: redisClient,
		key:   DefaultMirrorKey,
		ttl:   ttl,
	}
}

// Save stores snap, replacing any previous copy.
func (m *Mirror) Save(ctx context.Context, snap *catalog.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		MirrorErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := m.redis.Set(ctx, m.key, data, m.ttl).Err(); err != nil {
		MirrorErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load returns the mirrored snapshot, or ErrCacheMiss when there is none.
func (m *Mirror) Load(ctx context.Context) (*catalog.Snapshot, error) {
	data, err := m.redis.Get(ctx, m.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		MirrorErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		MirrorErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := catalog.Validate(&snap.Tables); err != nil {
		MirrorErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	snap.Source = SourceMirror
	return &snap, nil
}

// Delete removes the mirrored snapshot.
func (m *Mirror) Delete(ctx context.Context) error {
	if err := m.redis.Del(ctx, m.key).Err(); err != nil {
		MirrorErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
