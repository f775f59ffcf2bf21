package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
)

// IdentityKey is the gin context key holding the caller identity of a write
const IdentityKey = "identity"

// RequireIdentity rejects writes that do not carry the identity header. The
// value is not checked: the course API only knows a static placeholder.
func RequireIdentity(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.GetHeader(header)
		if value == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Identity required").
				WithField(header).
				WithDetails(header + " header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(IdentityKey, value)
		c.Next()
	}
}
