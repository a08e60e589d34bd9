package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const DeviceCookie = "device_id"

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetDeviceID stores the long-lived browser identifier that keys session,
// draft and preference records.
func (m *Manager) SetDeviceID(c *gin.Context, deviceID string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DeviceCookie, deviceID, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// ClearDeviceID drops the browser identifier; the next request gets a new one.
func (m *Manager) ClearDeviceID(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DeviceCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
