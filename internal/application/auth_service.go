package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
)

type AuthService struct {
	API      *backend.API
	Sessions repository.SessionRepository
	Logger   *logrus.Logger
	loginURL string
}

func NewAuthService(api *backend.API, sessions repository.SessionRepository, logger *logrus.Logger, loginURL string) *AuthService {
	return &AuthService{API: api, Sessions: sessions, Logger: logger, loginURL: loginURL}
}

// LoginURL is the identity provider entry point the browser is sent to.
func (s *AuthService) LoginURL() string { return s.loginURL }

// Callback turns the access token handed back by the identity provider into
// a stored session for deviceID. cookies are backend cookies that arrived
// with the callback, notably the refresh token.
func (s *AuthService) Callback(ctx context.Context, deviceID, accessToken string, cookies []entity.Cookie) (*BoundSession, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	claims, err := helpers.ParseAccessTokenUnverified(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess := NewBoundSession(s.Sessions, deviceID, &entity.Session{
		DeviceID:    deviceID,
		AccessToken: accessToken,
		Cookies:     cookies,
	})
	u, err := s.API.Me(ctx, sess)
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = claims.UserID
	}
	if err := sess.SetUser(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "device_id": deviceID}).Info("session created")
	return sess, nil
}

// Check re-validates an authenticated session against the backend. It
// reports false once the session is gone. Transport failures keep the
// cached user so a flaky backend does not sign people out.
func (s *AuthService) Check(ctx context.Context, sess *BoundSession) (*entity.User, bool) {
	if !sess.Authenticated() {
		return nil, false
	}
	u, err := s.API.Me(ctx, sess)
	switch {
	case apiclient.IsUnauthorized(err):
		return nil, false
	case err != nil:
		s.Logger.WithError(err).WithField("device_id", sess.ID()).Warn("session check failed, using cached user")
		return sess.User(), true
	}
	if err := sess.SetUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("device_id", sess.ID()).Warn("cache user failed")
	}
	return u, true
}

// Logout revokes the backend refresh token when possible and always clears
// the local session.
func (s *AuthService) Logout(ctx context.Context, sess *BoundSession) error {
	if sess.Authenticated() {
		if err := s.API.Logout(ctx, sess); err != nil && !apiclient.IsUnauthorized(err) {
			s.Logger.WithError(err).WithField("device_id", sess.ID()).Warn("backend logout failed")
		}
	}
	return sess.Clear(ctx)
}
