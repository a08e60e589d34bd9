package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/internal/infrastructure/redisstore"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

type fixture struct {
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	sessions *redisstore.SessionRepository
	drafts   *redisstore.DraftRepository
	api      *backend.API
	navs     *int32
}

func newFixture(t *testing.T, h http.Handler) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	var navs int32
	client := apiclient.New(srv.URL,
		apiclient.WithLogger(helpers.DiscardLogger()),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(context.Context) { atomic.AddInt32(&navs, 1) })),
	)
	return &fixture{
		mr:       mr,
		rdb:      rdb,
		sessions: redisstore.NewSessionRepository(rdb, time.Hour),
		drafts:   redisstore.NewDraftRepository(rdb, time.Hour),
		api:      backend.New(client),
		navs:     &navs,
	}
}

func accessToken(t *testing.T, uid string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
