package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

func draftKey(deviceID string) string { return "doki:draft:" + deviceID }

type DraftRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftRepository(rdb *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{rdb: rdb, ttl: ttl}
}

func (r *DraftRepository) Get(ctx context.Context, deviceID string) (*entity.Draft, error) {
	var d entity.Draft
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, draftKey(deviceID), &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepository) Save(ctx context.Context, deviceID string, d *entity.Draft) error {
	d.UpdatedAt = time.Now().UTC()
	return helpers.RedisSetJSON(ctx, r.rdb, draftKey(deviceID), d, r.ttl)
}

func (r *DraftRepository) Delete(ctx context.Context, deviceID string) error {
	return helpers.RedisDel(ctx, r.rdb, draftKey(deviceID))
}

var _ repository.DraftRepository = (*DraftRepository)(nil)
