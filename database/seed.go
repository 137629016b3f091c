package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSeedCredentials is returned when the super admin credentials are incomplete
var ErrSeedCredentials = errors.New("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD must both be set")

// Seeder handles database seeding operations
type Seeder struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	log    *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(users repository.UserRepository, hasher *auth.Hasher, log *zap.Logger) *Seeder {
	return &Seeder{users: users, hasher: hasher, log: log}
}

// SeedSuperAdmin makes sure an account with SUPER_ADMIN exists for email.
// An existing account keeps its password and gains the role.
// Returns true when anything was written.
func (s *Seeder) SeedSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, ErrSeedCredentials
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Roles.HasAny(model.RoleSuperAdmin) {
			s.log.Info("super admin already exists, skipping", zap.String("email", email))
			return false, nil
		}
		existing.Roles = append(existing.Roles, model.RoleSuperAdmin)
		if err := s.users.Save(ctx, existing); err != nil {
			return false, fmt.Errorf("promote super admin: %w", err)
		}
		s.log.Info("promoted existing user to super admin", zap.Uint("user_id", existing.ID))
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, fmt.Errorf("look up super admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash super admin password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		FirstName:    "Super",
		LastName:     "Admin",
		PasswordHash: hash,
		Roles:        model.Roles{model.RoleUser, model.RoleSuperAdmin},
		Audit:        model.Audit{CreatedBy: audit.None().Ptr()},
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create super admin: %w", err)
	}

	s.log.Info("created super admin", zap.Uint("user_id", admin.ID))
	return true, nil
}
