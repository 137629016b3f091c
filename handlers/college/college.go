package college

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/handlers"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"github.com/sahilchouksey/thats-my-college/utils/query"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/sahilchouksey/thats-my-college/utils/validation"
	"go.uber.org/zap"
)

// CollegeHandler handles college requests
type CollegeHandler struct {
	colleges  *services.CollegeService
	authMW    *middleware.AuthMiddleware
	validator *validation.Validator
	log       *zap.Logger
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(colleges *services.CollegeService, authMW *middleware.AuthMiddleware, log *zap.Logger) *CollegeHandler {
	return &CollegeHandler{
		colleges:  colleges,
		authMW:    authMW,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// CreateCollegeRequest represents the request body for creating a college
type CreateCollegeRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Address     string   `json:"address" validate:"required"`
	Contact     []string `json:"contact" validate:"required,min=1,dive,required"`
	City        string   `json:"city" validate:"required,max=100"`
	State       string   `json:"state" validate:"required,max=100"`
	CollegeType []string `json:"college_type" validate:"required,min=1,dive,required"`
	Established int      `json:"established" validate:"required,gte=1800,lte=2100"`
	University  string   `json:"university" validate:"required,max=255"`
	Logo        string   `json:"logo" validate:"omitempty,url"`
	Image       []string `json:"image" validate:"omitempty,dive,url"`
	Message     string   `json:"message"`
	Details     string   `json:"details"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	Featured    bool     `json:"featured"`
}

// UpdateCollegeRequest represents the request body for updating a college
type UpdateCollegeRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Address     *string  `json:"address"`
	Contact     []string `json:"contact" validate:"omitempty,min=1,dive,required"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	State       *string  `json:"state" validate:"omitempty,max=100"`
	CollegeType []string `json:"college_type" validate:"omitempty,min=1,dive,required"`
	Established *int     `json:"established" validate:"omitempty,gte=1800,lte=2100"`
	University  *string  `json:"university" validate:"omitempty,max=255"`
	Logo        *string  `json:"logo" validate:"omitempty,url"`
	Image       []string `json:"image" validate:"omitempty,dive,url"`
	Message     *string  `json:"message"`
	Details     *string  `json:"details"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Featured    *bool    `json:"featured"`
}

// CreateCollege handles POST /api/college
func (h *CollegeHandler) CreateCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "college.create")
	log.Info("initiated")

	var req CreateCollegeRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	college, err := h.colleges.Create(c.UserContext(), services.CollegeInput{
		Name:        req.Name,
		Address:     req.Address,
		Contact:     req.Contact,
		City:        req.City,
		State:       req.State,
		CollegeType: req.CollegeType,
		Established: req.Established,
		University:  req.University,
		Logo:        req.Logo,
		Image:       req.Image,
		Message:     req.Message,
		Details:     req.Details,
		Rating:      req.Rating,
		Featured:    req.Featured,
	}, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("college_id", college.ID))
	return response.Created(c, "College created successfully", college)
}

// ListColleges handles GET /api/college
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "college.list")
	log.Info("initiated")

	filter, err := query.CollegeFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	colleges, total, err := h.colleges.List(c.UserContext(), filter)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	page, limit, _ := filter.Pagination()
	log.Info("succeeded", zap.Int("count", len(colleges)), zap.Int64("total", total))
	return response.Paginated(c, colleges, response.CalculatePagination(page, limit, total))
}

// GetCollege handles GET /api/college/:collegeId
func (h *CollegeHandler) GetCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "college.get")
	log.Info("initiated")

	id, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	college, err := h.colleges.Get(c.UserContext(), id)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("college_id", id))
	return response.Success(c, college)
}

// UpdateCollege handles PATCH /api/college/:collegeId
func (h *CollegeHandler) UpdateCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "college.update")
	log.Info("initiated")

	id, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateCollegeRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	college, err := h.colleges.Update(c.UserContext(), id, services.CollegeUpdate{
		Name:        req.Name,
		Address:     req.Address,
		Contact:     req.Contact,
		City:        req.City,
		State:       req.State,
		CollegeType: req.CollegeType,
		Established: req.Established,
		University:  req.University,
		Logo:        req.Logo,
		Image:       req.Image,
		Message:     req.Message,
		Details:     req.Details,
		Rating:      req.Rating,
		Featured:    req.Featured,
	}, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("college_id", id))
	return response.SuccessWithMessage(c, "College updated successfully", college)
}

// DeleteCollege handles DELETE /api/college/:collegeId
func (h *CollegeHandler) DeleteCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "college.delete")
	log.Info("initiated")

	id, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.colleges.Delete(c.UserContext(), id, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("college_id", id), zap.Bool("course_deleted", result.CourseDeleted))
	return response.SuccessWithMessage(c, "College deleted successfully", result)
}
