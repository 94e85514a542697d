package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/admin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const capabilityKey = "admin_capability"

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		})

		if c.Writer.Status() >= http.StatusBadRequest {
			entry.Error("request failed")
		} else {
			entry.Info("request processed")
		}
	}
}

type Authenticator interface {
	Authenticate(username, password string) (admin.Capability, error)
}

// AdminAuth checks HTTP basic credentials and stores the issued capability on
// the context.
func AdminAuth(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="flightdesk-admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "admin credentials required"})
			return
		}
		capability, err := gate.Authenticate(user, password)
		if err != nil {
			logrus.WithField("user", user).Warn("admin authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		c.Set(capabilityKey, capability)
		c.Next()
	}
}

func capabilityFrom(c *gin.Context) admin.Capability {
	v, ok := c.Get(capabilityKey)
	if !ok {
		return admin.Capability{}
	}
	capability, _ := v.(admin.Capability)
	return capability
}
