package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

// SessionMonitor periodically re-checks stored sessions whose access token
// is about to expire. The check goes through the API client, which either
// reissues the token or clears the session; racing a user request is
// harmless since both end in the same idempotent clear.
type SessionMonitor struct {
	Sessions repository.SessionRepository
	API      *backend.API
	Logger   *logrus.Logger
	Interval time.Duration
	Skew     time.Duration
	now      func() time.Time
}

func NewSessionMonitor(sessions repository.SessionRepository, api *backend.API, logger *logrus.Logger, interval, skew time.Duration) *SessionMonitor {
	return &SessionMonitor{Sessions: sessions, API: api, Logger: logger, Interval: interval, Skew: skew, now: time.Now}
}

// Run ticks until ctx is cancelled.
func (m *SessionMonitor) Run(ctx context.Context) {
	if m.Interval <= 0 {
		return
	}
	t := time.NewTicker(m.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			res, err := m.Sweep(ctx)
			if err != nil {
				helpers.LogError(m.Logger, "session sweep failed", err, nil)
				continue
			}
			if res.Checked > 0 {
				m.Logger.WithFields(logrus.Fields{"checked": res.Checked, "expired": res.Expired}).Info("session sweep")
			}
		}
	}
}

type SweepResult struct {
	Checked int
	Expired int
}

// Sweep runs one pass over every stored session.
func (m *SessionMonitor) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	err := m.Sessions.Each(ctx, func(rec *entity.Session) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !rec.IsAuthenticated() || !m.due(rec.AccessToken) {
			return nil
		}
		res.Checked++
		sess := NewBoundSession(m.Sessions, rec.DeviceID, rec)
		if _, err := m.API.Me(ctx, sess); err != nil {
			if apiclient.IsUnauthorized(err) {
				res.Expired++
				return nil
			}
			m.Logger.WithError(err).WithField("device_id", rec.DeviceID).Warn("session check failed")
		}
		return nil
	})
	return res, err
}

// due reports whether the token expires within Skew or cannot be read.
func (m *SessionMonitor) due(token string) bool {
	exp, ok := helpers.TokenExpiry(token)
	if !ok {
		return true
	}
	return !exp.After(m.now().Add(m.Skew))
}
