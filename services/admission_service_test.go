package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/queue"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admissionInput(collegeID uint, courseID *uint) AdmissionInput {
	return AdmissionInput{
		ApplicantName:        "Asha Rao",
		ApplicantMobile:      "+919876543210",
		ApplicantEmail:       "Asha@Example.com",
		InterestedCourse:     "B.Tech",
		ApplicantCurrentCity: "Hyderabad",
		CollegeID:            collegeID,
		CourseID:             courseID,
	}
}

func TestCreateAdmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	college := f.college(t, "A", "TS")
	course := f.course(t, college.ID, "B.Tech")

	application, err := f.admissions.Create(ctx, user, admissionInput(college.ID, &course.ID))
	require.NoError(t, err)

	assert.Equal(t, user.ID, application.UserID)
	assert.Equal(t, model.AdmissionStatusApplied, application.Status)
	assert.Equal(t, "asha@example.com", application.ApplicantEmail)
	require.NotNil(t, application.CreatedBy)
	assert.Equal(t, user.ID, *application.CreatedBy)
	assert.Contains(t, f.events.types(), queue.EventAdmissionCreated)
}

func TestCreateAdmissionChecksReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	a := f.college(t, "A", "TS")
	b := f.college(t, "B", "TS")
	courseOfB := f.course(t, b.ID, "MBA")
	missing := uint(999)

	_, err := f.admissions.Create(ctx, user, admissionInput(missing, nil))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.admissions.Create(ctx, user, admissionInput(a.ID, &missing))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.admissions.Create(ctx, user, admissionInput(a.ID, &courseOfB.ID))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAdmissionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.signup(t, "owner@example.com")
	other := f.signup(t, "other@example.com")
	admin := f.admin(t, "admin@example.com")
	college := f.college(t, "A", "TS")

	application, err := f.admissions.Create(ctx, owner, admissionInput(college.ID, nil))
	require.NoError(t, err)

	_, err = f.admissions.Get(ctx, other, application.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	name := "Someone Else"
	_, err = f.admissions.Update(ctx, other, application.ID, AdmissionUpdate{ApplicantName: &name})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = f.admissions.Delete(ctx, other, application.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	got, err := f.admissions.Get(ctx, admin, application.ID)
	require.NoError(t, err)
	require.NotNil(t, got.College)
	assert.Equal(t, "A", got.College.Name)

	_, err = f.admissions.ListByUser(ctx, other, owner.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	mine, err := f.admissions.ListByUser(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, f.admissions.Delete(ctx, owner, application.ID))
	_, err = f.admissions.Get(ctx, owner, application.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateAdmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	a := f.college(t, "A", "TS")
	b := f.college(t, "B", "TS")
	courseOfB := f.course(t, b.ID, "MBA")

	application, err := f.admissions.Create(ctx, user, admissionInput(a.ID, nil))
	require.NoError(t, err)

	// moving the course alone must still match the current college
	_, err = f.admissions.Update(ctx, user, application.ID, AdmissionUpdate{CourseID: &courseOfB.ID})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	city := "Pune"
	updated, err := f.admissions.Update(ctx, user, application.ID, AdmissionUpdate{
		CollegeID:            &b.ID,
		CourseID:             &courseOfB.ID,
		ApplicantCurrentCity: &city,
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.CollegeID)
	assert.Equal(t, "Pune", updated.ApplicantCurrentCity)
	assert.Equal(t, "Asha Rao", updated.ApplicantName)
	require.NotNil(t, updated.College)
	assert.Equal(t, "B", updated.College.Name)
}

func TestUpdateAdmissionStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	college := f.college(t, "A", "TS")
	application, err := f.admissions.Create(ctx, user, admissionInput(college.ID, nil))
	require.NoError(t, err)

	_, err = f.admissions.UpdateStatus(ctx, application.ID, "ENROLLED", audit.None())
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := f.admissions.UpdateStatus(ctx, application.ID, model.AdmissionStatusShortlisted, audit.User(1))
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionStatusShortlisted, updated.Status)
	assert.Contains(t, f.events.types(), queue.EventAdmissionStatusChanged)

	_, err = f.admissions.UpdateStatus(ctx, 999, model.AdmissionStatusAdmitted, audit.None())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListAdmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.signup(t, "asha@example.com")
	college := f.college(t, "A", "TS")
	for i := 0; i < 3; i++ {
		_, err := f.admissions.Create(ctx, user, admissionInput(college.ID, nil))
		require.NoError(t, err)
	}

	list, err := f.admissions.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.TotalDocuments)
	assert.Len(t, list.Applications, 2)
}
