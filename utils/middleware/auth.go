package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"go.uber.org/zap"
)

const (
	localUser   = "user"
	localClaims = "claims"
	localJTI    = "token_jti"
)

// TokenVerifier resolves bearer tokens to users
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, *auth.Claims, error)
	ResolveActor(ctx context.Context, token string) audit.Actor
}

// AuthMiddleware handles JWT authentication and role checks
type AuthMiddleware struct {
	verifier TokenVerifier
	log      *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, log: log}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			rejected("token", "missing")
			return response.Unauthorized(c, "Missing authorization token")
		}

		token, ok := BearerToken(c)
		if !ok {
			rejected("token", "format")
			return response.Unauthorized(c, "Invalid authorization format")
		}

		user, claims, err := m.verifier.VerifyToken(c.UserContext(), token)
		if err != nil {
			if apperror.Is(err, apperror.KindUnauthorized) {
				rejected("token", "invalid")
			}
			return response.FromError(c, err, m.log)
		}

		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		c.Locals(localJTI, claims.ID)

		return c.Next()
	}
}

// RequireRoles grants access when the caller holds any of the roles. It must
// run after Required.
func (m *AuthMiddleware) RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if !user.Roles.HasAny(roles...) {
			rejected("role", "insufficient")
			return response.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRoles for ADMIN or SUPER_ADMIN
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRoles(model.AdminRoles...)
}

// Actor identifies the caller for audit columns. Authenticated requests use
// the resolved user; otherwise the bearer token is tried, and anything
// unusable yields the unknown actor.
func (m *AuthMiddleware) Actor(c *fiber.Ctx) audit.Actor {
	if user, ok := GetUser(c); ok {
		return audit.User(user.ID)
	}
	token, ok := BearerToken(c)
	if !ok {
		return audit.None()
	}
	return m.verifier.ResolveActor(c.UserContext(), token)
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(localUser).(*model.User)
	return u, ok && u != nil
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(localClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	j, ok := c.Locals(localJTI).(string)
	return j, ok
}
