package redisstore

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

const sessionPrefix = "doki:session:"

func sessionKey(deviceID string) string { return sessionPrefix + deviceID }

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository stores sessions as JSON values whose TTL slides on
// every save.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, deviceID string) (*entity.Session, error) {
	var s entity.Session
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, sessionKey(deviceID), &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *entity.Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return helpers.RedisSetJSON(ctx, r.rdb, sessionKey(s.DeviceID), s, r.ttl)
}

func (r *SessionRepository) Delete(ctx context.Context, deviceID string) error {
	return helpers.RedisDel(ctx, r.rdb, sessionKey(deviceID))
}

func (r *SessionRepository) Each(ctx context.Context, fn func(*entity.Session) error) error {
	return helpers.RedisScanKeys(ctx, r.rdb, sessionPrefix+"*", func(keys []string) error {
		for _, k := range keys {
			s, err := r.Get(ctx, strings.TrimPrefix(k, sessionPrefix))
			if err != nil {
				return err
			}
			// expired between SCAN and GET
			if s == nil {
				continue
			}
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
