// Package dedup suppresses Telegram webhook redeliveries. Telegram resends
// an update until it gets a 200, so a slow first attempt can arrive twice;
// a short-lived redis key per update ID catches the repeats. Checking and
// marking are separate: an update is marked only after its transaction
// committed, so a failed attempt stays eligible for redelivery.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyTTL = 24 * time.Hour

type Deduper struct {
	rdb *redis.Client
}

func Connect(addr, password string) (*Deduper, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Deduper{rdb: rdb}, nil
}

// Seen reports whether updateID was already fully processed. Redis failures
// fail open: the update is processed again rather than dropped.
func (d *Deduper) Seen(ctx context.Context, updateID int) bool {
	n, err := d.rdb.Exists(ctx, key(updateID)).Result()
	if err != nil {
		slog.Warn("dedup check failed, processing anyway", "update_id", updateID, "error", err)
		return false
	}
	return n > 0
}

// Mark records updateID as processed. Called only after a successful commit.
func (d *Deduper) Mark(ctx context.Context, updateID int) {
	if err := d.rdb.Set(ctx, key(updateID), "1", keyTTL).Err(); err != nil {
		slog.Warn("dedup mark failed", "update_id", updateID, "error", err)
	}
}

func key(updateID int) string {
	return fmt.Sprintf("update_seen_%d", updateID)
}
