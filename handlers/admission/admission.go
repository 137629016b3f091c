package admission

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

// AdmissionHandler handles admission application requests
type AdmissionHandler struct {
	admissions *services.AdmissionService
	authMW     *middleware.AuthMiddleware
	validator  *validation.Validator
	log        *zap.Logger
}

// NewAdmissionHandler creates a new admission handler
func NewAdmissionHandler(admissions *services.AdmissionService, authMW *middleware.AuthMiddleware, log *zap.Logger) *AdmissionHandler {
	return &AdmissionHandler{
		admissions: admissions,
		authMW:     authMW,
		validator:  validation.NewValidator(),
		log:        log,
	}
}

// CreateAdmissionRequest represents the request body for filing an application
type CreateAdmissionRequest struct {
	ApplicantName        string `json:"applicant_name" validate:"required,max=255"`
	ApplicantMobile      string `json:"applicant_mobile" validate:"required,phone"`
	ApplicantEmail       string `json:"applicant_email" validate:"required,email"`
	CollegeID            uint   `json:"college_id" validate:"required,min=1"`
	CourseID             *uint  `json:"course_id" validate:"omitempty,min=1"`
	InterestedCourse     string `json:"interested_course" validate:"required,max=255"`
	ApplicantCurrentCity string `json:"applicant_current_city" validate:"omitempty,max=100"`
}

// UpdateAdmissionRequest represents the request body for changing applicant fields
type UpdateAdmissionRequest struct {
	ApplicantName        *string `json:"applicant_name" validate:"omitempty,min=1,max=255"`
	ApplicantMobile      *string `json:"applicant_mobile" validate:"omitempty,phone"`
	ApplicantEmail       *string `json:"applicant_email" validate:"omitempty,email"`
	CollegeID            *uint   `json:"college_id" validate:"omitempty,min=1"`
	CourseID             *uint   `json:"course_id" validate:"omitempty,min=1"`
	InterestedCourse     *string `json:"interested_course" validate:"omitempty,min=1,max=255"`
	ApplicantCurrentCity *string `json:"applicant_current_city" validate:"omitempty,max=100"`
}

// UpdateStatusRequest represents the request body for moving an application
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,admission_status"`
}

// CreateApplication handles POST /api/admission-application
func (h *AdmissionHandler) CreateApplication(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.create")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateAdmissionRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	application, err := h.admissions.Create(c.UserContext(), caller, services.AdmissionInput{
		ApplicantName:        req.ApplicantName,
		ApplicantMobile:      req.ApplicantMobile,
		ApplicantEmail:       req.ApplicantEmail,
		InterestedCourse:     req.InterestedCourse,
		ApplicantCurrentCity: req.ApplicantCurrentCity,
		CollegeID:            req.CollegeID,
		CourseID:             req.CourseID,
	})
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("application_id", application.ID))
	return response.Created(c, "Admission application created successfully", application)
}

// ListApplications handles GET /api/admission-application
func (h *AdmissionHandler) ListApplications(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.list")
	log.Info("initiated")

	page, limit := query.Page(c)
	list, err := h.admissions.List(c.UserContext(), page, limit)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int64("total", list.TotalDocuments))
	return response.Paginated(c, list, response.CalculatePagination(page, limit, list.TotalDocuments))
}

// ListUserApplications handles GET /api/admission-application/user/:userId
func (h *AdmissionHandler) ListUserApplications(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.list_by_user")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	userID, err := query.ID(c, "userId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	applications, err := h.admissions.ListByUser(c.UserContext(), caller, userID)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int("count", len(applications)))
	return response.Success(c, applications)
}

// GetApplication handles GET /api/admission-application/:id
func (h *AdmissionHandler) GetApplication(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.get")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := query.ID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	application, err := h.admissions.Get(c.UserContext(), caller, id)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("application_id", id))
	return response.Success(c, application)
}

// UpdateApplication handles PATCH /api/admission-application/:id
func (h *AdmissionHandler) UpdateApplication(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.update")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := query.ID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateAdmissionRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	application, err := h.admissions.Update(c.UserContext(), caller, id, services.AdmissionUpdate{
		ApplicantName:        req.ApplicantName,
		ApplicantMobile:      req.ApplicantMobile,
		ApplicantEmail:       req.ApplicantEmail,
		InterestedCourse:     req.InterestedCourse,
		ApplicantCurrentCity: req.ApplicantCurrentCity,
		CollegeID:            req.CollegeID,
		CourseID:             req.CourseID,
	})
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("application_id", id))
	return response.SuccessWithMessage(c, "Admission application updated successfully", application)
}

// UpdateStatus handles PATCH /api/admission-application/update-status/:id
func (h *AdmissionHandler) UpdateStatus(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.update_status")
	log.Info("initiated")

	id, err := query.ID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateStatusRequest
	if ok, err := handlers.ParseBody(c, h.validator, log, &req); !ok {
		return err
	}

	application, err := h.admissions.UpdateStatus(c.UserContext(), id, req.Status, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("application_id", id), zap.String("status", application.Status))
	return response.SuccessWithMessage(c, "Admission application status updated successfully", application)
}

// DeleteApplication handles DELETE /api/admission-application/:id
func (h *AdmissionHandler) DeleteApplication(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "admission.delete")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	id, err := query.ID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.admissions.Delete(c.UserContext(), caller, id); err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Uint("application_id", id))
	return response.SuccessWithMessage(c, "Admission application deleted successfully", fiber.Map{"id": id})
}
