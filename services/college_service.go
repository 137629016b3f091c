package services

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"go.uber.org/zap"
)

const msgCollegeExists = "College with this name already exists"

// CollegeService manages colleges and their cascading removal
type CollegeService struct {
	colleges repository.CollegeRepository
	log      *zap.Logger
}

// NewCollegeService creates a new college service
func NewCollegeService(colleges repository.CollegeRepository, log *zap.Logger) *CollegeService {
	return &CollegeService{colleges: colleges, log: log}
}

// CollegeInput is the full set of college attributes
type CollegeInput struct {
	Name        string
	Address     string
	Contact     []string
	City        string
	State       string
	CollegeType []string
	Established int
	University  string
	Logo        string
	Image       []string
	Message     string
	Details     string
	Rating      float64
	Featured    bool
}

// CollegeUpdate carries the attributes to change. Nil fields are left alone.
type CollegeUpdate struct {
	Name        *string
	Address     *string
	Contact     []string
	City        *string
	State       *string
	CollegeType []string
	Established *int
	University  *string
	Logo        *string
	Image       []string
	Message     *string
	Details     *string
	Rating      *float64
	Featured    *bool
}

// DeleteCollegeResult reports what a cascading delete removed
type DeleteCollegeResult struct {
	CollegeID     uint `json:"college_id"`
	CourseDeleted bool `json:"course_deleted"`
}

// Create adds a college
func (s *CollegeService) Create(ctx context.Context, in CollegeInput, actor audit.Actor) (*model.College, error) {
	college := &model.College{
		Name:        strings.TrimSpace(in.Name),
		Address:     in.Address,
		Contact:     pq.StringArray(in.Contact),
		City:        in.City,
		State:       in.State,
		CollegeType: pq.StringArray(in.CollegeType),
		Established: in.Established,
		University:  in.University,
		Logo:        in.Logo,
		Image:       pq.StringArray(in.Image),
		Message:     in.Message,
		Details:     in.Details,
		Rating:      in.Rating,
		Featured:    in.Featured,
		Audit:       model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
	}

	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, writeError(err, msgCollegeExists, "Failed to create college")
	}
	return college, nil
}

// Get returns a college by id
func (s *CollegeService) Get(ctx context.Context, id uint) (*model.College, error) {
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "College not found")
	}
	return college, nil
}

// List returns one page of colleges matching the filter and the total count
func (s *CollegeService) List(ctx context.Context, filter repository.CollegeFilter) ([]model.College, int64, error) {
	colleges, total, err := s.colleges.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to list colleges", err)
	}
	return colleges, total, nil
}

// Update changes the given attributes of a college
func (s *CollegeService) Update(ctx context.Context, id uint, in CollegeUpdate, actor audit.Actor) (*model.College, error) {
	college, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		college.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		college.Address = *in.Address
	}
	if in.Contact != nil {
		college.Contact = pq.StringArray(in.Contact)
	}
	if in.City != nil {
		college.City = *in.City
	}
	if in.State != nil {
		college.State = *in.State
	}
	if in.CollegeType != nil {
		college.CollegeType = pq.StringArray(in.CollegeType)
	}
	if in.Established != nil {
		college.Established = *in.Established
	}
	if in.University != nil {
		college.University = *in.University
	}
	if in.Logo != nil {
		college.Logo = *in.Logo
	}
	if in.Image != nil {
		college.Image = pq.StringArray(in.Image)
	}
	if in.Message != nil {
		college.Message = *in.Message
	}
	if in.Details != nil {
		college.Details = *in.Details
	}
	if in.Rating != nil {
		college.Rating = *in.Rating
	}
	if in.Featured != nil {
		college.Featured = *in.Featured
	}
	college.UpdatedBy = actor.Ptr()

	if err := s.colleges.Save(ctx, college); err != nil {
		return nil, writeError(err, msgCollegeExists, "Failed to update college")
	}
	return college, nil
}

// Delete removes the college and its course record atomically
func (s *CollegeService) Delete(ctx context.Context, id uint, actor audit.Actor) (*DeleteCollegeResult, error) {
	courseDeleted, err := s.colleges.DeleteCascade(ctx, id, actor)
	if err != nil {
		return nil, lookupError(err, "College not found")
	}

	s.log.Info("college deleted",
		zap.Uint("college_id", id),
		zap.Bool("course_deleted", courseDeleted),
	)
	return &DeleteCollegeResult{CollegeID: id, CourseDeleted: courseDeleted}, nil
}
