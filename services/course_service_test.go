package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	college := f.college(t, "IIT Hyderabad", "TS")

	_, err := f.courses.Create(ctx, college.ID, nil, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.courses.Create(ctx, 999, []model.CourseEntry{{CourseName: "B.Tech"}}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.course(t, college.ID, "B.Tech")
	_, err = f.courses.Create(ctx, college.ID, []model.CourseEntry{{CourseName: "M.Tech"}}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), msgCourseExists)
}

func TestListWithCollegesFiltersByCollegeState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.college(t, "A", "TS")
	b := f.college(t, "B", "MH")
	f.course(t, a.ID, "B.Tech")
	f.course(t, b.ID, "B.Tech")

	result, err := f.courses.ListWithColleges(ctx, repository.CourseFilter{CollegeFilter: repository.CollegeFilter{State: "TS"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalDocuments)
	require.Len(t, result.Courses, 1)
	require.NotNil(t, result.Courses[0].College)
	assert.Equal(t, "A", result.Courses[0].College.Name)
}

func TestListWithCollegesFiltersByCourseName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.college(t, "A", "TS")
	b := f.college(t, "B", "TS")
	f.course(t, a.ID, "B.Tech", "MBA")
	f.course(t, b.ID, "B.Sc")

	result, err := f.courses.ListWithColleges(ctx, repository.CourseFilter{CourseName: "MBA"})
	require.NoError(t, err)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, a.ID, result.Courses[0].CollegeID)
}

func TestListWithCollegesPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		college := f.college(t, fmt.Sprintf("College %02d", i), "X")
		f.course(t, college.ID, "B.Tech")
	}
	other := f.college(t, "Elsewhere", "Y")
	f.course(t, other.ID, "B.Tech")

	result, err := f.courses.ListWithColleges(ctx, repository.CourseFilter{
		CollegeFilter: repository.CollegeFilter{State: "X", Page: 2, Limit: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), result.TotalDocuments)
	require.Len(t, result.Courses, 5)
	for _, c := range result.Courses {
		assert.Equal(t, "X", c.College.State)
	}
	assert.Equal(t, "College 05", result.Courses[0].College.Name)
}

func TestListWithCollegesSkipsDeletedColleges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.college(t, "A", "TS")
	f.course(t, a.ID, "B.Tech")
	_, err := f.colleges.Delete(ctx, a.ID, audit.None())
	require.NoError(t, err)

	result, err := f.courses.ListWithColleges(ctx, repository.CourseFilter{})
	require.NoError(t, err)
	assert.Empty(t, result.Courses)
	assert.Equal(t, int64(0), result.TotalDocuments)
}

func TestUpdateCourseByCollege(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	college := f.college(t, "A", "TS")
	f.course(t, college.ID, "B.Tech")

	updated, err := f.courses.UpdateByCollege(ctx, college.ID, []model.CourseEntry{{CourseName: "MBA", Fee: "50000"}}, audit.User(3))
	require.NoError(t, err)
	require.Len(t, updated.Entries, 1)
	assert.Equal(t, "MBA", updated.Entries[0].CourseName)

	_, err = f.courses.UpdateByCollege(ctx, college.ID, nil, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.courses.UpdateByCollege(ctx, 999, []model.CourseEntry{{CourseName: "MBA"}}, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteCourseByCollegeAllowsRecreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	college := f.college(t, "A", "TS")
	f.course(t, college.ID, "B.Tech")

	require.NoError(t, f.courses.DeleteByCollege(ctx, college.ID, audit.None()))
	_, err := f.courses.GetByCollege(ctx, college.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.course(t, college.ID, "MBA")
}

func TestSweepOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kept := f.college(t, "A", "TS")
	keptCourse := f.course(t, kept.ID, "B.Tech")
	gone := f.college(t, "B", "TS")
	orphan := f.course(t, gone.ID, "B.Tech")
	f.store.DeleteCollegeOnly(gone.ID)

	swept, err := f.courses.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	_, err = f.courses.Get(ctx, orphan.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.courses.Get(ctx, keptCourse.ID)
	assert.NoError(t, err)

	swept, err = f.courses.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}
