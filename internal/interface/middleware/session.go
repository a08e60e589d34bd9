package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/pkg/helpers"
	"github.com/oksasatya/doki-web/pkg/response"
)

const sessionKey = "session"

// Session loads the stored record for the device and attaches a
// request-scoped session. A missing record yields an anonymous session.
// Must run after Device.
func Session(repo repository.SessionRepository, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := DeviceID(c)
		rec, err := repo.Get(c.Request.Context(), deviceID)
		if err != nil {
			helpers.LogError(logger, "load session failed", err, logrus.Fields{"device_id": deviceID})
			rec = nil
		}
		sess := application.NewBoundSession(repo, deviceID, rec)
		c.Set(sessionKey, sess)
		if u := sess.User(); u != nil {
			c.Set("userID", u.ID)
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by Session.
func SessionFrom(c *gin.Context) *application.BoundSession {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*application.BoundSession); ok {
			return s
		}
	}
	return application.NewBoundSession(noopSessions{}, DeviceID(c), nil)
}

// noopSessions backs sessions for requests that bypassed Session. Writes
// are dropped so the session lives only as long as the request.
type noopSessions struct{}

func (noopSessions) Get(context.Context, string) (*entity.Session, error) { return nil, nil }
func (noopSessions) Save(context.Context, *entity.Session) error { return nil }
func (noopSessions) Delete(context.Context, string) error { return nil }
func (noopSessions) Each(context.Context, func(*entity.Session) error) error {
	return nil
}

// RequireAuth rejects anonymous sessions with 401 and a redirect hint.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			response.Error[any](c, http.StatusUnauthorized, "login required", gin.H{"redirect": LoginURL(c)})
			return
		}
		c.Next()
	}
}
