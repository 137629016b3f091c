package services

import (
	"context"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const msgCourseExists = "Courses for this college already exist"

// CourseService manages the per-college course records
type CourseService struct {
	courses  repository.CourseRepository
	colleges repository.CollegeRepository
	log      *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courses repository.CourseRepository, colleges repository.CollegeRepository, log *zap.Logger) *CourseService {
	return &CourseService{courses: courses, colleges: colleges, log: log}
}

// Create stores the course list for a college. A college has at most one record.
func (s *CourseService) Create(ctx context.Context, collegeID uint, entries []model.CourseEntry, actor audit.Actor) (*model.Course, error) {
	if len(entries) == 0 {
		return nil, apperror.Validation("At least one course is required")
	}
	if _, err := s.colleges.FindByID(ctx, collegeID); err != nil {
		return nil, lookupError(err, "College not found")
	}

	course := &model.Course{
		CollegeID: collegeID,
		Entries:   datatypes.JSONSlice[model.CourseEntry](entries),
		Audit:     model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, writeError(err, msgCourseExists, "Failed to create course")
	}
	return course, nil
}

// List returns one page of course records
func (s *CourseService) List(ctx context.Context, page, limit int) ([]model.Course, int64, error) {
	courses, total, err := s.courses.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to list courses", err)
	}
	return courses, total, nil
}

// ListWithColleges runs the course/college filter engine
func (s *CourseService) ListWithColleges(ctx context.Context, filter repository.CourseFilter) (*repository.CourseListResult, error) {
	result, err := s.courses.ListWithColleges(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to list courses", err)
	}
	return result, nil
}

// Get returns a course record by id
func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Course not found")
	}
	return course, nil
}

// GetByCollege returns the course record of a college
func (s *CourseService) GetByCollege(ctx context.Context, collegeID uint) (*model.Course, error) {
	course, err := s.courses.FindByCollegeID(ctx, collegeID)
	if err != nil {
		return nil, lookupError(err, "Courses not found for this college")
	}
	return course, nil
}

// Update replaces the entries of a course record
func (s *CourseService) Update(ctx context.Context, id uint, entries []model.CourseEntry, actor audit.Actor) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.replaceEntries(ctx, course, entries, actor)
}

// UpdateByCollege replaces the entries of a college's course record
func (s *CourseService) UpdateByCollege(ctx context.Context, collegeID uint, entries []model.CourseEntry, actor audit.Actor) (*model.Course, error) {
	course, err := s.GetByCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	return s.replaceEntries(ctx, course, entries, actor)
}

func (s *CourseService) replaceEntries(ctx context.Context, course *model.Course, entries []model.CourseEntry, actor audit.Actor) (*model.Course, error) {
	if len(entries) == 0 {
		return nil, apperror.Validation("At least one course is required")
	}

	course.Entries = datatypes.JSONSlice[model.CourseEntry](entries)
	course.UpdatedBy = actor.Ptr()

	if err := s.courses.Save(ctx, course); err != nil {
		return nil, writeError(err, msgCourseExists, "Failed to update course")
	}
	return course, nil
}

// Delete soft-deletes a course record by id
func (s *CourseService) Delete(ctx context.Context, id uint, actor audit.Actor) error {
	if err := s.courses.SoftDelete(ctx, id, actor); err != nil {
		return lookupError(err, "Course not found")
	}
	return nil
}

// DeleteByCollege soft-deletes the course record of a college
func (s *CourseService) DeleteByCollege(ctx context.Context, collegeID uint, actor audit.Actor) error {
	course, err := s.GetByCollege(ctx, collegeID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, course.ID, actor)
}

// SweepOrphans removes course records left behind by deleted colleges
func (s *CourseService) SweepOrphans(ctx context.Context) (int64, error) {
	swept, err := s.courses.SweepOrphans(ctx)
	if err != nil {
		return 0, apperror.Internal("Failed to sweep orphan courses", err)
	}
	if swept > 0 {
		s.log.Info("orphan courses swept", zap.Int64("count", swept))
	}
	return swept, nil
}
