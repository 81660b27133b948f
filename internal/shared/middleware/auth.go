package middleware

import (
	"github.com/gin-gonic/gin"

	"bloglist-backend/internal/shared/auth"
	"bloglist-backend/internal/shared/response"
)

const identityKey = "identity"

// AuthMiddleware requires a valid bearer token resolving to a live user.
// The identity is stored on the gin context (see CurrentIdentity).
func AuthMiddleware(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := guard.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.ID.String())
		c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthMiddleware, or nil.
func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
