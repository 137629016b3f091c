package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/handlers"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/sahilchouksey/thats-my-college/utils/validation"
	"go.uber.org/zap"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	auth       *services.AuthService
	bruteForce *middleware.BruteForceProtection
	validator  *validation.Validator
	log        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, bruteForce *middleware.BruteForceProtection, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		bruteForce: bruteForce,
		validator:  validation.NewValidator(),
		log:        log,
	}
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type login func(*fiber.Ctx, string, string) (*services.AuthResult, error)

// Login handles POST /api/auth
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return h.login(c, "auth.login", func(c *fiber.Ctx, email, password string) (*services.AuthResult, error) {
		return h.auth.Authenticate(c.UserContext(), email, password)
	})
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, "auth.admin_login", func(c *fiber.Ctx, email, password string) (*services.AuthResult, error) {
		return h.auth.AdminLogin(c.UserContext(), email, password)
	})
}

func (h *AuthHandler) login(c *fiber.Ctx, op string, fn login) error {
	log := handlers.OpLogger(h.log, c, op)
	log.Info("initiated")

	var req LoginRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	result, err := fn(c, req.Email, req.Password)
	if err != nil {
		if apperror.Is(err, apperror.KindUnauthorized) {
			h.bruteForce.RecordFailure(c.UserContext(), c.IP())
		}
		return handlers.Fail(c, log, err)
	}
	h.bruteForce.RecordSuccess(c.UserContext(), c.IP())

	log.Info("succeeded", zap.Uint("user_id", result.User.ID))
	return response.SuccessWithMessage(c, "User authenticated successfully", result)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "auth.logout")
	log.Info("initiated")

	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", claims.UserID))
	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
