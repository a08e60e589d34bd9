package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/doki-web/pkg/helpers"
)

const deviceIDKey = "device_id"

// Device makes sure every browser carries a device_id cookie. Session,
// draft and preference records are keyed by it.
func Device(cookies *helpers.Manager, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(helpers.DeviceCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			cookies.SetDeviceID(c, id, time.Now().Add(ttl))
		}
		c.Set(deviceIDKey, id)
		c.Next()
	}
}

// DeviceID returns the identifier installed by Device.
func DeviceID(c *gin.Context) string {
	return c.GetString(deviceIDKey)
}
