package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"masterdata-service/internal/models"
)

// openPaths are reachable without credentials. OTP verification stays open
// because it runs before the client has stored credentials.
var openPaths = map[string]bool{
	"/health":        true,
	"/ready":         true,
	"/api/VerifyOTP": true,
}

// BasicAuth enforces HTTP Basic credentials on every API route. The check
// runs before any handler logic so unauthenticated requests never touch the
// database.
func BasicAuth(username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if openPaths[path] || strings.HasPrefix(path, "/swagger/") ||
			strings.HasPrefix(path, "/api/VerifyOTP/") {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="masterdata"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}
