package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// OperatorKey is the gin context key holding the authenticated operator
const OperatorKey = "operator"

// DefaultOperator is recorded when authentication is disabled
const DefaultOperator = "operator"

// RequireOperator resolves the operator from a Bearer token. With required
// unset a missing header falls back to DefaultOperator; a present but
// invalid token is always rejected.
func RequireOperator(tokens *service.TokenService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				response.Error(c, http.StatusUnauthorized, "Authorization header required")
				c.Abort()
				return
			}
			c.Set(OperatorKey, DefaultOperator)
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(OperatorKey, claims.Operator)
		c.Next()
	}
}

// Operator returns the operator set by RequireOperator
func Operator(c *gin.Context) string {
	if op := c.GetString(OperatorKey); op != "" {
		return op
	}
	return DefaultOperator
}
