package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
)

// PublicPrefixes bypass token verification.
var PublicPrefixes = []string{
	"/api/auth/register",
	"/api/auth/login",
	"/actuator/",
}

func IsPublic(path string, extra ...string) bool {
	for _, p := range append(PublicPrefixes, extra...) {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// JWTAuth verifies the bearer token on secured paths and overwrites the
// attested identity headers. Client-supplied X-User-* headers never reach a
// downstream service, on public paths included. extraPublic adds prefixes
// to PublicPrefixes.
func JWTAuth(v *auth.Verifier, log *logrus.Entry, extraPublic ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz.Strip(c.Request.Header)
		if IsPublic(c.Request.URL.Path, extraPublic...) {
			c.Next()
			return
		}

		h, ok := c.Request.Header["Authorization"]
		if !ok || len(h) == 0 {
			unauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(h[0], "Bearer ") {
			unauthorized(c, "Invalid authorization header format")
			return
		}
		p, err := v.ExtractPrincipal(strings.TrimPrefix(h[0], "Bearer "))
		if err != nil {
			obs.From(c, log).WithError(err).Debug("token rejected")
			unauthorized(c, "Invalid or expired token")
			return
		}

		authz.Attest(c.Request.Header, p)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "status": http.StatusUnauthorized})
}
