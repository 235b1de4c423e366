package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// PresenceMirror publishes online markers to Redis so other Booking4U
// services can answer "is this user online" without talking to the relay.
// It is best-effort and non-authoritative: the in-memory registry is the
// source of truth, and TTL expiry covers relay crashes.
type PresenceMirror struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresenceMirror(c Config, ttl time.Duration) (*PresenceMirror, error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &PresenceMirror{rdb: rdb, ttl: ttl}, nil
}

// presence key: booking4u:presence:<user>
// value: connection id of the latest registration, TTL bounds staleness
func presenceKey(user string) string { return "booking4u:presence:" + user }

// Online marks the user online and renews the TTL.
func (m *PresenceMirror) Online(ctx context.Context, user, connID string) error {
	return m.rdb.Set(ctx, presenceKey(user), connID, m.ttl).Err()
}

// Offline actively removes the marker.
func (m *PresenceMirror) Offline(ctx context.Context, user string) error {
	return m.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup reports whether the user currently has a marker.
func (m *PresenceMirror) Lookup(ctx context.Context, user string) (connID string, online bool, err error) {
	val, err := m.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (m *PresenceMirror) Close() error { return m.rdb.Close() }
