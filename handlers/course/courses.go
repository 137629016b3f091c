package course

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/handlers"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"github.com/sahilchouksey/thats-my-college/utils/query"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/sahilchouksey/thats-my-college/utils/validation"
	"go.uber.org/zap"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	courses   *services.CourseService
	authMW    *middleware.AuthMiddleware
	validator *validation.Validator
	log       *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *services.CourseService, authMW *middleware.AuthMiddleware, log *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		authMW:    authMW,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// CreateCourseRequest represents the request body for creating a course record
type CreateCourseRequest struct {
	CollegeID uint                `json:"college_id" validate:"required,min=1"`
	Courses   []model.CourseEntry `json:"courses" validate:"required,min=1,dive"`
}

// UpdateCourseRequest replaces the course entries of a record
type UpdateCourseRequest struct {
	Courses []model.CourseEntry `json:"courses" validate:"required,min=1,dive"`
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.create")
	log.Info("initiated")

	var req CreateCourseRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	course, err := h.courses.Create(c.UserContext(), req.CollegeID, req.Courses, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", course.ID), zap.Uint("college_id", course.CollegeID))
	return response.Created(c, "Courses created successfully", course)
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.list")
	log.Info("initiated")

	page, limit := query.Page(c)
	courses, total, err := h.courses.List(c.UserContext(), page, limit)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int("count", len(courses)))
	return response.Paginated(c, courses, response.CalculatePagination(page, limit, total))
}

// ListWithColleges handles GET /api/courses/get-all/college-details
func (h *CourseHandler) ListWithColleges(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.list_with_colleges")
	log.Info("initiated")

	filter, err := query.CourseFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.courses.ListWithColleges(c.UserContext(), filter)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	page, limit, _ := filter.Pagination()
	log.Info("succeeded", zap.Int("count", len(result.Courses)), zap.Int64("total", result.TotalDocuments))
	return response.Paginated(c, result, response.CalculatePagination(page, limit, result.TotalDocuments))
}

// GetCourse handles GET /api/courses/:courseId
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.get")
	log.Info("initiated")

	id, err := query.ID(c, "courseId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	course, err := h.courses.Get(c.UserContext(), id)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", id))
	return response.Success(c, course)
}

// GetCourseByCollege handles GET /api/courses/college/:collegeId
func (h *CourseHandler) GetCourseByCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.get_by_college")
	log.Info("initiated")

	collegeID, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	course, err := h.courses.GetByCollege(c.UserContext(), collegeID)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", course.ID))
	return response.Success(c, course)
}

// UpdateCourse handles PATCH /api/courses/:courseId
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.update")
	log.Info("initiated")

	id, err := query.ID(c, "courseId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateCourseRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	course, err := h.courses.Update(c.UserContext(), id, req.Courses, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", id))
	return response.SuccessWithMessage(c, "Courses updated successfully", course)
}

// UpdateCourseByCollege handles PATCH /api/courses/college/:collegeId
func (h *CourseHandler) UpdateCourseByCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.update_by_college")
	log.Info("initiated")

	collegeID, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateCourseRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	course, err := h.courses.UpdateByCollege(c.UserContext(), collegeID, req.Courses, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", course.ID))
	return response.SuccessWithMessage(c, "Courses updated successfully", course)
}

// DeleteCourse handles DELETE /api/courses/:courseId
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.delete")
	log.Info("initiated")

	id, err := query.ID(c, "courseId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.courses.Delete(c.UserContext(), id, h.authMW.Actor(c)); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("course_id", id))
	return response.SuccessWithMessage(c, "Courses deleted successfully", fiber.Map{"course_id": id})
}

// DeleteCourseByCollege handles DELETE /api/courses/college/:collegeId
func (h *CourseHandler) DeleteCourseByCollege(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "courses.delete_by_college")
	log.Info("initiated")

	collegeID, err := query.ID(c, "collegeId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.courses.DeleteByCollege(c.UserContext(), collegeID, h.authMW.Actor(c)); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("college_id", collegeID))
	return response.SuccessWithMessage(c, "Courses deleted successfully", fiber.Map{"college_id": collegeID})
}
