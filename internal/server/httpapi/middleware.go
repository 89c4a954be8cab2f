package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"carsapi/internal/logging"
	"carsapi/internal/server/auth"
	"carsapi/internal/server/services"
)

const principalKey = "httpapi.principal"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// PrincipalResolver turns a verified subject id into a Principal with
// its current roles. Role changes take effect on the next request, not
// the next token.
type PrincipalResolver func(ctx context.Context, userID string) (services.Principal, error)

// authRequired verifies the Authorization bearer token and stores the
// resolved principal in the request context.
func authRequired(verifier TokenVerifier, resolve PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		principal, err := resolve(c.Request.Context(), claims.Subject)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) services.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(services.Principal); ok {
			return p
		}
	}
	return services.Principal{}
}

func loggingMiddleware(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
