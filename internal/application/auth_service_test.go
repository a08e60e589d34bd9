package application

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

func TestAuthService_CallbackStoresSession(t *testing.T) {
	token := accessToken(t, "u-7", time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		if ck, err := r.Cookie("refresh_token"); assert.NoError(t, err) {
			assert.Equal(t, "r-1", ck.Value)
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": "Mina", "email": "mina@doki.kr"})
	})
	f := newFixture(t, mux)
	svc := NewAuthService(f.api, f.sessions, helpers.DiscardLogger(), "https://idp/login")
	ctx := context.Background()

	sess, err := svc.Callback(ctx, "dev-1", token, []entity.Cookie{{Name: "refresh_token", Value: "r-1"}})

	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "u-7", sess.User().ID)
	rec, err := f.sessions.Get(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, token, rec.AccessToken)
	assert.Equal(t, "Mina", rec.User.Name)
}

func TestAuthService_CallbackRejectsBadTokens(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewAuthService(f.api, f.sessions, helpers.DiscardLogger(), "")

	_, err := svc.Callback(context.Background(), "dev-1", "", nil)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Callback(context.Background(), "dev-1", "garbage", nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_CheckAfterExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	f := newFixture(t, mux)
	svc := NewAuthService(f.api, f.sessions, helpers.DiscardLogger(), "")
	ctx := context.Background()
	rec := &entity.Session{DeviceID: "dev-1", AccessToken: "old", User: &entity.User{ID: "u-1"}}
	require.NoError(t, f.sessions.Save(ctx, rec))

	u, ok := svc.Check(ctx, NewBoundSession(f.sessions, "dev-1", rec))

	assert.False(t, ok)
	assert.Nil(t, u)
	stored, err := f.sessions.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, int32(1), atomic.LoadInt32(f.navs))
}

func TestAuthService_CheckKeepsCachedUserOnBackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "maintenance"})
	})
	f := newFixture(t, mux)
	svc := NewAuthService(f.api, f.sessions, helpers.DiscardLogger(), "")
	rec := &entity.Session{DeviceID: "dev-1", AccessToken: "tok", User: &entity.User{ID: "u-1", Name: "Mina"}}

	u, ok := svc.Check(context.Background(), NewBoundSession(f.sessions, "dev-1", rec))

	assert.True(t, ok)
	require.NotNil(t, u)
	assert.Equal(t, "Mina", u.Name)
	assert.Zero(t, atomic.LoadInt32(f.navs))
}

func TestAuthService_LogoutClearsEvenWhenBackendFails(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	f := newFixture(t, mux)
	svc := NewAuthService(f.api, f.sessions, helpers.DiscardLogger(), "")
	ctx := context.Background()
	rec := &entity.Session{DeviceID: "dev-1", AccessToken: "tok", User: &entity.User{ID: "u-1"}}
	require.NoError(t, f.sessions.Save(ctx, rec))
	sess := NewBoundSession(f.sessions, "dev-1", rec)

	require.NoError(t, svc.Logout(ctx, sess))
	require.NoError(t, svc.Logout(ctx, sess))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, sess.Authenticated())
	stored, err := f.sessions.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
