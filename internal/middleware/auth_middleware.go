package middleware

import (
	"strings"

	"go-accounts/internal/domain"
	"go-accounts/internal/shared/apperror"
	"go-accounts/internal/shared/contextutil"
	"go-accounts/internal/shared/response"
	"go-accounts/internal/token"

	"github.com/gin-gonic/gin"
)

const TokenCookieName = "token"

const claimsKey = "claims"

// Auth requires a valid token from the Authorization header or the token
// cookie and puts the verified claims on the request.
func Auth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			response.FromError(c, token.ErrMissingToken)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// leaves the request anonymous. The register route uses it: the bootstrap
// signup carries no token, every later signup must carry an admin's.
func OptionalAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw != "" {
			if claims, err := tokens.Verify(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRoles rejects callers whose role is outside the allowed set. It
// must run after Auth.
func RequireRoles(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.FromError(c, apperror.ErrForbidden)
			c.Abort()
			return
		}

		for _, role := range allowed {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		response.FromError(c, apperror.ErrForbidden)
		c.Abort()
	}
}

func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

func setClaims(c *gin.Context, claims *token.Claims) {
	c.Set(claimsKey, claims)
	c.Set("user_id", claims.UserID)
	c.Set("company_id", claims.CompanyID)
	c.Set("role", claims.Role.String())

	ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if raw, found := strings.CutPrefix(authHeader, "Bearer "); found && raw != "" {
		return raw
	}

	if cookie, err := c.Cookie(TokenCookieName); err == nil {
		return cookie
	}

	return ""
}
