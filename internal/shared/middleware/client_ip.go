package middleware

import (
	"github.com/gin-gonic/gin"

	"bloglist-backend/internal/shared/utils"
)

// ClientIPMiddleware resolves the caller address once for the access log.
// Register it before Logger.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}
