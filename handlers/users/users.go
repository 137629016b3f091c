package users

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/handlers"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"github.com/sahilchouksey/thats-my-college/utils/query"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/sahilchouksey/thats-my-college/utils/validation"
	"go.uber.org/zap"
)

// UserHandler handles account and profile requests
type UserHandler struct {
	users     *services.UserService
	auth      *services.AuthService
	authMW    *middleware.AuthMiddleware
	validator *validation.Validator
	log       *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, auth *services.AuthService, authMW *middleware.AuthMiddleware, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		auth:      auth,
		authMW:    authMW,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"omitempty,max=100"`
	Phone         string `json:"phone" validate:"required,phone"`
	Qualification string `json:"qualification" validate:"omitempty,max=255"`
	ProfilePic    string `json:"profile_pic" validate:"omitempty,url"`
	Gender        string `json:"gender" validate:"required,gender"`
	Password      string `json:"password" validate:"required,strong_password"`
}

// OAuthLoginRequest is the profile asserted by the identity provider
type OAuthLoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name" validate:"omitempty,max=100"`
	LastName   string `json:"last_name" validate:"omitempty,max=100"`
	ProfilePic string `json:"profile_pic" validate:"omitempty,url"`
}

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName      *string `json:"last_name" validate:"omitempty,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,phone"`
	Qualification *string `json:"qualification" validate:"omitempty,max=255"`
	ProfilePic    *string `json:"profile_pic" validate:"omitempty,url"`
	Gender        *string `json:"gender" validate:"omitempty,gender"`
}

// UpdateRoleRequest represents the request body for replacing a user's roles
type UpdateRoleRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Role  []string `json:"role" validate:"required,min=1,dive,role"`
}

// UpdatePasswordRequest sets a new password. UserID defaults to the caller.
type UpdatePasswordRequest struct {
	UserID   uint   `json:"user_id" validate:"omitempty,min=1"`
	Password string `json:"password" validate:"required,strong_password"`
}

// Signup handles POST /api/users
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.signup")
	log.Info("initiated")

	var req SignupRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	user, err := h.users.Signup(c.UserContext(), services.SignupInput{
		Email:         req.Email,
		Phone:         req.Phone,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		Gender:        req.Gender,
		Qualification: req.Qualification,
		ProfilePic:    req.ProfilePic,
	}, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	result, err := h.auth.IssueToken(user)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", user.ID))
	return response.Created(c, "User created successfully", result)
}

// OAuthLogin handles POST /api/users/oauth-login
func (h *UserHandler) OAuthLogin(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.oauth_login")
	log.Info("initiated")

	var req OAuthLoginRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	result, err := h.auth.OAuthLogin(c.UserContext(), services.OAuthInput{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", result.User.ID))
	return response.SuccessWithMessage(c, "User authenticated successfully", result)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.list")
	log.Info("initiated")

	page, limit := query.Page(c)
	users, total, err := h.users.List(c.UserContext(), page, limit)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int("count", len(users)))
	return response.Paginated(c, users, response.CalculatePagination(page, limit, total))
}

// GetUserByEmail handles GET /api/users/email/:email
func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.get_by_email")
	log.Info("initiated")

	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", user.ID))
	return response.Success(c, user)
}

// GetUser handles GET /api/users/:userId
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.get")
	log.Info("initiated")

	id, err := h.selfOrAdmin(c)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", user.ID))
	return response.Success(c, user)
}

// UpdateUser handles PATCH /api/users/:userId
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.update")
	log.Info("initiated")

	id, err := h.selfOrAdmin(c)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	var req UpdateUserRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), id, services.ProfileUpdate{
		Phone:         req.Phone,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        req.Gender,
		Qualification: req.Qualification,
		ProfilePic:    req.ProfilePic,
	}, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", user.ID))
	return response.SuccessWithMessage(c, "User updated successfully", user)
}

// UpdateRole handles PATCH /api/users/role/update
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.update_role")
	log.Info("initiated")

	var req UpdateRoleRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	user, err := h.users.UpdateRoles(c.UserContext(), req.Email, req.Role, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", user.ID), zap.Strings("roles", user.Roles))
	return response.SuccessWithMessage(c, "User role updated successfully", user)
}

// UpdatePassword handles PATCH /api/users/password/update
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.update_password")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req UpdatePasswordRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	target := caller.ID
	if req.UserID != 0 && req.UserID != caller.ID {
		if !caller.Roles.HasAny(model.RoleSuperAdmin) {
			return handlers.Fail(c, log, apperror.Forbidden("You can only change your own password"))
		}
		target = req.UserID
	}

	if err := h.users.UpdatePassword(c.UserContext(), target, req.Password, h.authMW.Actor(c)); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", target))
	return response.SuccessWithMessage(c, "Password updated successfully", nil)
}

// DeleteUser handles DELETE /api/users/:userId
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "users.delete")
	log.Info("initiated")

	id, err := query.ID(c, "userId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	hard := c.QueryBool("hard", false)

	if err := h.users.Delete(c.UserContext(), id, hard, h.authMW.Actor(c)); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("user_id", id), zap.Bool("hard", hard))
	return response.SuccessWithMessage(c, "User deleted successfully", fiber.Map{"user_id": id, "hard": hard})
}

// selfOrAdmin parses :userId and checks the caller may act on it
func (h *UserHandler) selfOrAdmin(c *fiber.Ctx) (uint, error) {
	id, err := query.ID(c, "userId")
	if err != nil {
		return 0, apperror.Validation(err.Error())
	}
	caller, ok := middleware.GetUser(c)
	if !ok {
		return 0, apperror.Unauthorized("Authentication required")
	}
	if caller.ID != id && !services.IsAdmin(caller) {
		return 0, apperror.Forbidden("You can only access your own account")
	}
	return id, nil
}
