package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	HomeURL string
	// LoginPageURL is the app's own login screen, used when the callback
	// cannot establish a session.
	LoginPageURL string
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, homeURL, loginPageURL string) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, HomeURL: homeURL, LoginPageURL: loginPageURL}
}

// Login sends the browser to the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.Svc.LoginURL())
}

// Callback receives ?accessToken= from the identity provider round trip.
// The refresh cookie set by the backend on the shared parent domain is
// copied into the session.
func (h *AuthHandler) Callback(c *gin.Context) {
	var cookies []entity.Cookie
	if ck, err := c.Request.Cookie(refreshCookie); err == nil && ck.Value != "" {
		cookies = append(cookies, entity.Cookie{Name: ck.Name, Value: ck.Value})
	}
	_, err := h.Svc.Callback(c.Request.Context(), middleware.DeviceID(c), c.Query("accessToken"), cookies)
	if err != nil {
		reason := "callback_failed"
		switch {
		case errors.Is(err, application.ErrMissingToken):
			reason = "missing_token"
		case errors.Is(err, application.ErrInvalidToken):
			reason = "invalid_token"
		default:
			h.Logger.WithError(err).WithField("device_id", middleware.DeviceID(c)).Warn("login callback failed")
		}
		c.Redirect(http.StatusFound, withQuery(h.LoginPageURL, "error", reason))
		return
	}
	c.Redirect(http.StatusFound, h.HomeURL)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"loggedOut": true}, "logged out", nil)
}

type sessionView struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *entity.User `json:"user"`
}

// Session reports the current login state. Polled by the browser, so an
// authenticated session is re-validated against the backend each time.
func (h *AuthHandler) Session(c *gin.Context) {
	u, ok := h.Svc.Check(c.Request.Context(), middleware.SessionFrom(c))
	response.Success(c, http.StatusOK, sessionView{IsAuthenticated: ok, User: u}, "session", nil)
}

func withQuery(raw, key, value string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
