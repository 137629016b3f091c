package services

import (
	"context"
	"errors"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgNotAdmin           = "User is not authorized as Admin"
)

// AuthResult is a user together with a freshly issued token
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"auth_token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// OAuthInput is the profile asserted by an external identity provider
type OAuthInput struct {
	Email      string
	FirstName  string
	LastName   string
	ProfilePic string
}

// AuthService issues and verifies tokens and checks credentials
type AuthService struct {
	users     repository.UserRepository
	jwt       *auth.JWTManager
	hasher    *auth.Hasher
	blacklist TokenBlacklist
	events    EventPublisher
	log       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, jwt *auth.JWTManager, hasher *auth.Hasher, blacklist TokenBlacklist, events EventPublisher, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwt:       jwt,
		hasher:    hasher,
		blacklist: blacklist,
		events:    events,
		log:       log,
	}
}

// IssueToken signs a token for the user
func (s *AuthService) IssueToken(user *model.User) (*AuthResult, error) {
	issued, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, apperror.Internal("Failed to generate token", err)
	}
	return &AuthResult{User: user, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// Authenticate checks email and password. An unknown email and a wrong
// password fail with the same message.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("Failed to load user", err)
		}
		_ = s.hasher.VerifyDummy(password)
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	if user.PasswordHash == "" {
		_ = s.hasher.VerifyDummy(password)
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	return s.IssueToken(user)
}

// AdminLogin authenticates and then requires ADMIN or SUPER_ADMIN
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	result, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !result.User.Roles.HasAny(model.AdminRoles...) {
		return nil, apperror.Forbidden(MsgNotAdmin)
	}
	return result, nil
}

// OAuthLogin finds the account for an externally verified email, creating it
// on first login, and issues a token.
func (s *AuthService) OAuthLogin(ctx context.Context, in OAuthInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			Email:      email,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			ProfilePic: in.ProfilePic,
			Roles:      model.Roles{model.RoleUser},
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, writeError(err, "User with this email already exists", "Failed to create user")
		}
		s.log.Info("user registered via oauth", zap.Uint("user_id", user.ID))
		s.events.Publish(ctx, queue.EventUserRegistered, user.ID, map[string]any{"email": user.Email, "oauth": true})
	default:
		return nil, apperror.Internal("Failed to load user", err)
	}

	return s.IssueToken(user)
}

// VerifyToken validates a bearer token and resolves the user it belongs to
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*model.User, *auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, apperror.Unauthorized("Token has expired")
		}
		return nil, nil, apperror.Unauthorized("Invalid token")
	}

	revoked, err := s.blacklist.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperror.Internal("Failed to check token status", err)
	}
	if revoked {
		return nil, nil, apperror.Unauthorized("Token has been revoked")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.Unauthorized("User not found")
		}
		return nil, nil, apperror.Internal("Failed to load user", err)
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, apperror.Unauthorized("Token has been invalidated")
	}

	return user, claims, nil
}

// ResolveActor identifies the caller for audit columns. It never fails; an
// unusable token yields the unknown actor.
func (s *AuthService) ResolveActor(ctx context.Context, token string) audit.Actor {
	if token == "" {
		return audit.None()
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return audit.None()
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		return audit.None()
	}
	return audit.User(claims.UserID)
}

// Logout revokes the token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	expiresAt := time.Now().Add(s.jwt.Expiry())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.blacklist.RevokeToken(ctx, claims.ID, claims.UserID, expiresAt, "logout"); err != nil {
		return apperror.Internal("Failed to logout", err)
	}
	return nil
}
