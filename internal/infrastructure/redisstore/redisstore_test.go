package redisstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewSessionRepository(rdb, time.Hour)
	ctx := context.Background()

	missing, err := repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	s := &entity.Session{
		DeviceID:    "dev-1",
		AccessToken: "tok",
		Cookies:     []entity.Cookie{{Name: "refresh_token", Value: "r"}},
		User:        &entity.User{ID: "u1", Email: "a@doki.kr"},
	}
	require.NoError(t, repo.Save(ctx, s))
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, time.Hour, mr.TTL("doki:session:dev-1"))

	got, err := repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, got.IsAuthenticated())
	assert.Equal(t, "u1", got.User.ID)
	assert.Equal(t, "r", got.Cookies[0].Value)

	require.NoError(t, repo.Delete(ctx, "dev-1"))
	require.NoError(t, repo.Delete(ctx, "dev-1"))
	got, err = repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_Each(t *testing.T) {
	_, rdb := newRedis(t)
	repo := NewSessionRepository(rdb, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, &entity.Session{DeviceID: fmt.Sprintf("dev-%d", i)}))
	}
	require.NoError(t, rdb.Set(ctx, "doki:draft:dev-0", "{}", 0).Err())

	seen := map[string]bool{}
	require.NoError(t, repo.Each(ctx, func(s *entity.Session) error {
		seen[s.DeviceID] = true
		return nil
	}))

	assert.Equal(t, map[string]bool{"dev-0": true, "dev-1": true, "dev-2": true}, seen)
}

func TestDraftRepository(t *testing.T) {
	_, rdb := newRedis(t)
	repo := NewDraftRepository(rdb, time.Hour)
	ctx := context.Background()

	d, err := repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, d)

	draft := entity.NewDraft()
	draft.Concepts = []string{"glass-skin"}
	draft.Step = entity.StepFavoriteIdol
	require.NoError(t, repo.Save(ctx, "dev-1", draft))

	d, err = repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"glass-skin"}, d.Concepts)
	assert.Equal(t, entity.StepFavoriteIdol, d.Step)

	require.NoError(t, repo.Delete(ctx, "dev-1"))
	d, err = repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestPreferenceRepository(t *testing.T) {
	_, rdb := newRedis(t)
	repo := NewPreferenceRepository(rdb)
	ctx := context.Background()

	lang, err := repo.Language(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)

	require.NoError(t, repo.SetLanguage(ctx, "dev-1", "en"))
	lang, err = repo.Language(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}

func TestLegacyPurger_RunsOnce(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("doki:legacy-form:dev-%d", i), "{}"))
	}
	require.NoError(t, mr.Set("doki:draft:dev-0", "{}"))
	p := NewLegacyPurger(rdb, helpers.DiscardLogger())

	require.NoError(t, p.Run(ctx))
	require.NoError(t, mr.Set("doki:legacy-form:late", "{}"))
	require.NoError(t, p.Run(ctx))
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, 3, p.Removed)
	assert.True(t, mr.Exists("doki:legacy-form:late"))
	assert.True(t, mr.Exists("doki:draft:dev-0"))
	assert.False(t, mr.Exists("doki:legacy-form:dev-0"))
}
