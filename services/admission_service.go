package services

import (
	"context"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"go.uber.org/zap"
)

const msgAdmissionNotFound = "Admission application not found"

// AdmissionInput is an application as submitted by the applicant
type AdmissionInput struct {
	ApplicantName        string
	ApplicantMobile      string
	ApplicantEmail       string
	InterestedCourse     string
	ApplicantCurrentCity string
	CollegeID            uint
	CourseID             *uint
}

// AdmissionUpdate carries the applicant fields to change. Nil fields are left alone.
type AdmissionUpdate struct {
	ApplicantName        *string
	ApplicantMobile      *string
	ApplicantEmail       *string
	InterestedCourse     *string
	ApplicantCurrentCity *string
	CollegeID            *uint
	CourseID             *uint
}

// AdmissionList is one page of applications and the overall total
type AdmissionList struct {
	Applications   []model.AdmissionApplication `json:"applications"`
	TotalDocuments int64                        `json:"total_documents"`
}

// AdmissionService manages admission applications
type AdmissionService struct {
	applications repository.AdmissionRepository
	users        repository.UserRepository
	colleges     repository.CollegeRepository
	courses      repository.CourseRepository
	events       EventPublisher
	log          *zap.Logger
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	applications repository.AdmissionRepository,
	users repository.UserRepository,
	colleges repository.CollegeRepository,
	courses repository.CourseRepository,
	events EventPublisher,
	log *zap.Logger,
) *AdmissionService {
	return &AdmissionService{
		applications: applications,
		users:        users,
		colleges:     colleges,
		courses:      courses,
		events:       events,
		log:          log,
	}
}

// IsAdmin reports whether the user holds an administrative role
func IsAdmin(u *model.User) bool {
	return u != nil && u.Roles.HasAny(model.AdminRoles...)
}

// Create files an application owned by the caller with status APPLIED
func (s *AdmissionService) Create(ctx context.Context, caller *model.User, in AdmissionInput) (*model.AdmissionApplication, error) {
	if _, err := s.users.FindByID(ctx, caller.ID); err != nil {
		return nil, lookupError(err, "User not found")
	}
	if err := s.checkReferences(ctx, in.CollegeID, in.CourseID); err != nil {
		return nil, err
	}

	actor := audit.User(caller.ID)
	application := &model.AdmissionApplication{
		UserID:               caller.ID,
		CollegeID:            in.CollegeID,
		CourseID:             in.CourseID,
		ApplicantName:        in.ApplicantName,
		ApplicantMobile:      in.ApplicantMobile,
		ApplicantEmail:       NormalizeEmail(in.ApplicantEmail),
		InterestedCourse:     in.InterestedCourse,
		ApplicantCurrentCity: in.ApplicantCurrentCity,
		Status:               model.AdmissionStatusApplied,
		Audit:                model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
	}

	if err := s.applications.Create(ctx, application); err != nil {
		return nil, writeError(err, "Admission application already exists", "Failed to create admission application")
	}

	s.log.Info("admission application created",
		zap.Uint("application_id", application.ID),
		zap.Uint("user_id", caller.ID),
		zap.Uint("college_id", in.CollegeID),
	)
	s.events.Publish(ctx, queue.EventAdmissionCreated, application.ID, map[string]any{
		"user_id":    caller.ID,
		"college_id": in.CollegeID,
		"status":     application.Status,
	})
	return application, nil
}

// List returns one page of every application with its college
func (s *AdmissionService) List(ctx context.Context, page, limit int) (*AdmissionList, error) {
	applications, total, err := s.applications.List(ctx, page, limit)
	if err != nil {
		return nil, apperror.Internal("Failed to list admission applications", err)
	}
	return &AdmissionList{Applications: applications, TotalDocuments: total}, nil
}

// ListByUser returns a user's applications. Only the user or an admin may ask.
func (s *AdmissionService) ListByUser(ctx context.Context, caller *model.User, userID uint) ([]model.AdmissionApplication, error) {
	if caller.ID != userID && !IsAdmin(caller) {
		return nil, apperror.Forbidden("You can only view your own admission applications")
	}
	applications, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("Failed to list admission applications", err)
	}
	return applications, nil
}

// Get returns an application visible to the caller
func (s *AdmissionService) Get(ctx context.Context, caller *model.User, id uint) (*model.AdmissionApplication, error) {
	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgAdmissionNotFound)
	}
	// applications of other users are invisible rather than forbidden
	if application.UserID != caller.ID && !IsAdmin(caller) {
		return nil, apperror.NotFound(msgAdmissionNotFound)
	}
	return application, nil
}

// Update changes applicant fields of an application visible to the caller
func (s *AdmissionService) Update(ctx context.Context, caller *model.User, id uint, in AdmissionUpdate) (*model.AdmissionApplication, error) {
	application, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	collegeID := application.CollegeID
	if in.CollegeID != nil {
		collegeID = *in.CollegeID
	}
	courseID := application.CourseID
	if in.CourseID != nil {
		courseID = in.CourseID
	}
	if in.CollegeID != nil || in.CourseID != nil {
		if err := s.checkReferences(ctx, collegeID, courseID); err != nil {
			return nil, err
		}
	}

	application.CollegeID = collegeID
	application.CourseID = courseID
	if in.ApplicantName != nil {
		application.ApplicantName = *in.ApplicantName
	}
	if in.ApplicantMobile != nil {
		application.ApplicantMobile = *in.ApplicantMobile
	}
	if in.ApplicantEmail != nil {
		application.ApplicantEmail = NormalizeEmail(*in.ApplicantEmail)
	}
	if in.InterestedCourse != nil {
		application.InterestedCourse = *in.InterestedCourse
	}
	if in.ApplicantCurrentCity != nil {
		application.ApplicantCurrentCity = *in.ApplicantCurrentCity
	}
	application.UpdatedBy = audit.User(caller.ID).Ptr()
	application.College = nil

	if err := s.applications.Save(ctx, application); err != nil {
		return nil, writeError(err, "Admission application already exists", "Failed to update admission application")
	}

	updated, err := s.applications.FindByID(ctx, application.ID)
	if err != nil {
		return nil, lookupError(err, msgAdmissionNotFound)
	}
	return updated, nil
}

// UpdateStatus moves an application to a new status
func (s *AdmissionService) UpdateStatus(ctx context.Context, id uint, status string, actor audit.Actor) (*model.AdmissionApplication, error) {
	if !model.IsValidAdmissionStatus(status) {
		return nil, apperror.Validation("Invalid admission application status: " + status)
	}

	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgAdmissionNotFound)
	}

	previous := application.Status
	application.Status = status
	application.UpdatedBy = actor.Ptr()
	college := application.College
	application.College = nil

	if err := s.applications.Save(ctx, application); err != nil {
		return nil, writeError(err, "Admission application already exists", "Failed to update admission application status")
	}
	application.College = college

	if previous != status {
		s.events.Publish(ctx, queue.EventAdmissionStatusChanged, application.ID, map[string]any{
			"user_id": application.UserID,
			"from":    previous,
			"to":      status,
		})
	}
	return application, nil
}

// Delete removes an application visible to the caller
func (s *AdmissionService) Delete(ctx context.Context, caller *model.User, id uint) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.applications.SoftDelete(ctx, id, audit.User(caller.ID)); err != nil {
		return lookupError(err, msgAdmissionNotFound)
	}
	return nil
}

// checkReferences verifies the college exists and, when given, that the
// course record exists and belongs to that college.
func (s *AdmissionService) checkReferences(ctx context.Context, collegeID uint, courseID *uint) error {
	if _, err := s.colleges.FindByID(ctx, collegeID); err != nil {
		return lookupError(err, "College not found")
	}
	if courseID == nil {
		return nil
	}

	course, err := s.courses.FindByID(ctx, *courseID)
	if err != nil {
		return lookupError(err, "Course not found")
	}
	if course.CollegeID != collegeID {
		return apperror.Validation("Course does not belong to the selected college")
	}
	return nil
}
