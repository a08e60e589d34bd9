package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/doki-web/internal/domain/repository"
)

const DefaultLanguage = "ko"

func languageKey(deviceID string) string { return "doki:pref:lang:" + deviceID }

type PreferenceRepository struct {
	rdb *redis.Client
}

func NewPreferenceRepository(rdb *redis.Client) *PreferenceRepository {
	return &PreferenceRepository{rdb: rdb}
}

// Language returns the stored language or DefaultLanguage.
func (r *PreferenceRepository) Language(ctx context.Context, deviceID string) (string, error) {
	v, err := r.rdb.Get(ctx, languageKey(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultLanguage, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// SetLanguage persists without expiry, like browser local storage.
func (r *PreferenceRepository) SetLanguage(ctx context.Context, deviceID, lang string) error {
	return r.rdb.Set(ctx, languageKey(deviceID), lang, 0).Err()
}

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)
