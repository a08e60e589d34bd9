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

func TestSessionMonitor_Sweep(t *testing.T) {
	fresh := accessToken(t, "u-1", time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, entity.User{ID: "u-1", Name: "Mina"})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("refresh_token")
		if err != nil || ck.Value != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": fresh})
	})
	f := newFixture(t, mux)
	ctx := context.Background()

	soon := time.Now().Add(30 * time.Second)
	seed := map[string]*entity.Session{
		"dev-far":  {AccessToken: accessToken(t, "u-3", time.Now().Add(time.Hour)), Cookies: []entity.Cookie{{Name: "refresh_token", Value: "bad"}}},
		"dev-good": {AccessToken: accessToken(t, "u-1", soon), Cookies: []entity.Cookie{{Name: "refresh_token", Value: "good"}}},
		"dev-bad":  {AccessToken: accessToken(t, "u-2", soon), Cookies: []entity.Cookie{{Name: "refresh_token", Value: "bad"}}},
		"dev-anon": {},
	}
	for id, rec := range seed {
		rec.DeviceID = id
		if rec.AccessToken != "" {
			rec.User = &entity.User{ID: "someone"}
		}
		require.NoError(t, f.sessions.Save(ctx, rec))
	}

	m := NewSessionMonitor(f.sessions, f.api, helpers.DiscardLogger(), time.Minute, 2*time.Minute)
	res, err := m.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 2, Expired: 1}, res)

	good, err := f.sessions.Get(ctx, "dev-good")
	require.NoError(t, err)
	require.NotNil(t, good)
	assert.Equal(t, fresh, good.AccessToken)

	bad, err := f.sessions.Get(ctx, "dev-bad")
	require.NoError(t, err)
	assert.Nil(t, bad)

	far, err := f.sessions.Get(ctx, "dev-far")
	require.NoError(t, err)
	require.NotNil(t, far)
	assert.Equal(t, seed["dev-far"].AccessToken, far.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(f.navs))
}

func TestSessionMonitor_DueTreatsUnreadableTokenAsDue(t *testing.T) {
	m := NewSessionMonitor(nil, nil, helpers.DiscardLogger(), time.Minute, time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	assert.True(t, m.due("not-a-jwt"))
	assert.True(t, m.due(accessToken(t, "u", now.Add(30*time.Second))))
	assert.False(t, m.due(accessToken(t, "u", now.Add(time.Hour))))
}

func TestSessionMonitor_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	m := NewSessionMonitor(f.sessions, f.api, helpers.DiscardLogger(), 10*time.Millisecond, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
