package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"go.uber.org/zap"
)

// UserService manages accounts, profiles and roles
type UserService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	events EventPublisher
	log    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, hasher *auth.Hasher, events EventPublisher, log *zap.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, events: events, log: log}
}

// SignupInput is a new account with a password
type SignupInput struct {
	Email         string
	Phone         string
	FirstName     string
	LastName      string
	Password      string
	Gender        string
	Qualification string
	ProfilePic    string
}

// ProfileUpdate carries the profile fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	Phone         *string
	FirstName     *string
	LastName      *string
	Gender        *string
	Qualification *string
	ProfilePic    *string
}

// NormalizeEmail lower-cases and trims an address before lookup or storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a USER account
func (s *UserService) Signup(ctx context.Context, in SignupInput, actor audit.Actor) (*model.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperror.Validation(err.Error())
		}
		return nil, apperror.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:         NormalizeEmail(in.Email),
		Phone:         in.Phone,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PasswordHash:  hash,
		Roles:         model.Roles{model.RoleUser},
		Gender:        in.Gender,
		Qualification: in.Qualification,
		ProfilePic:    in.ProfilePic,
		Audit:         model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, writeError(err, "User with this email already exists", "Failed to create user")
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	s.events.Publish(ctx, queue.EventUserRegistered, user.ID, map[string]any{"email": user.Email})
	return user, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	return user, nil
}

// GetByEmail returns a user by email address
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	return user, nil
}

// List returns one page of users and the total count
func (s *UserService) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to list users", err)
	}
	return users, total, nil
}

// UpdateProfile changes profile fields. Email, roles and password have their own operations.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate, actor audit.Actor) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&user.Phone, in.Phone)
	assign(&user.FirstName, in.FirstName)
	assign(&user.LastName, in.LastName)
	assign(&user.Gender, in.Gender)
	assign(&user.Qualification, in.Qualification)
	assign(&user.ProfilePic, in.ProfilePic)
	user.UpdatedBy = actor.Ptr()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, writeError(err, "User with this email already exists", "Failed to update user")
	}
	return user, nil
}

// UpdateRoles replaces the role set of the user with the given email
func (s *UserService) UpdateRoles(ctx context.Context, email string, roles []string, actor audit.Actor) (*model.User, error) {
	if len(roles) == 0 {
		return nil, apperror.Validation("At least one role is required")
	}
	for _, r := range roles {
		if !model.IsValidRole(r) {
			return nil, apperror.Validation("Unknown role: " + r)
		}
	}

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Roles = model.Roles(roles).Normalize()
	user.UpdatedBy = actor.Ptr()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, writeError(err, "User with this email already exists", "Failed to update user role")
	}

	s.log.Info("user roles updated", zap.Uint("user_id", user.ID), zap.Strings("roles", user.Roles))
	return user, nil
}

// UpdatePassword sets a new password and invalidates every outstanding token
func (s *UserService) UpdatePassword(ctx context.Context, id uint, password string, actor audit.Actor) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return apperror.Validation(err.Error())
		}
		return apperror.Internal("Failed to hash password", err)
	}

	user.PasswordHash = hash
	user.TokenVersion++
	user.UpdatedBy = actor.Ptr()

	if err := s.users.Save(ctx, user); err != nil {
		return writeError(err, "User with this email already exists", "Failed to update password")
	}
	return nil
}

// Delete soft-deletes a user, or removes the row entirely when hard is set
func (s *UserService) Delete(ctx context.Context, id uint, hard bool, actor audit.Actor) error {
	var err error
	if hard {
		err = s.users.HardDelete(ctx, id)
	} else {
		err = s.users.SoftDelete(ctx, id, actor)
	}
	if err != nil {
		return lookupError(err, "User not found")
	}

	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Bool("hard", hard))
	return nil
}
