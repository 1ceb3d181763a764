package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/22146025/lord-s-heart-educational-complex/internal/access"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/jwt"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// Context keys set by OptionalAuth
const (
	CallerKey = "caller"
	ClaimsKey = "claims"
)

// RevocationChecker revoked token lookup (redis in production)
type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// OptionalAuth resolves the caller from "Authorization: Bearer <token>".
// A request without the header continues as anonymous; a header that does
// not carry a valid, unrevoked access token is rejected with 401.
// revoked may be nil, revocation is then not checked.
func OptionalAuth(jwtMgr *jwt.Manager, revoked RevocationChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(CallerKey, access.Anonymous)
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "token is invalid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token has expired"
			}
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "token type is invalid")
			c.Abort()
			return
		}

		if revoked != nil {
			blacklisted, err := revoked.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// redis down: accept the token
				logger.Warn("token blacklist lookup failed", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(CallerKey, access.Caller{
			UserID:      claims.UserID,
			Username:    claims.Username,
			IsStaff:     claims.IsStaff,
			IsSuperuser: claims.IsSuperuser,
		})

		c.Next()
	}
}

// Authorize enforces the access policy for (resource, op).
// 401 for anonymous callers, 403 for authenticated ones lacking the level.
func Authorize(resource access.Resource, op access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := access.Check(CallerFrom(c), resource, op)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, access.ErrUnauthenticated):
			response.Unauthorized(c, 10002, "authentication credentials were not provided")
			c.Abort()
		default:
			response.Forbidden(c, 10003, "you do not have permission to perform this action")
			c.Abort()
		}
	}
}

// CallerFrom the resolved caller, Anonymous when none was set
func CallerFrom(c *gin.Context) access.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(access.Caller); ok {
			return caller
		}
	}
	return access.Anonymous
}

// ClaimsFrom the parsed token claims, nil for anonymous requests
func ClaimsFrom(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}
