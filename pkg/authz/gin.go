package authz

import (
	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
)

const principalKey = "principal"

// Middleware derives the principal once per request and rejects requests
// that did not come through the gateway.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := FromHeaders(c.Request.Header)
		if err != nil {
			httpx.JSONError(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Middleware.
func PrincipalFrom(c *gin.Context) auth.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(auth.Principal)
	return p
}
