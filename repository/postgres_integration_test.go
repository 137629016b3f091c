package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sahilchouksey/thats-my-college/database"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to TEST_DATABASE_URL and resets every table.
// Tests are skipped when it is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	require.NoError(t, db.Exec(`TRUNCATE users, colleges, courses, admission_applications,
		callback_requests, jwt_token_blacklist, cron_job_logs RESTART IDENTITY CASCADE`).Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newCollege(name, state string) *model.College {
	return &model.College{
		Name:        name,
		Address:     "1 Campus Road",
		City:        "Hyderabad",
		State:       state,
		CollegeType: []string{"PRIVATE"},
		University:  "State University",
		Rating:      4,
	}
}

func newCourse(collegeID uint, names ...string) *model.Course {
	entries := make([]model.CourseEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, model.CourseEntry{CourseName: n, Fee: "1", Eligibility: "12th", Duration: "4y"})
	}
	return &model.Course{CollegeID: collegeID, Entries: datatypes.JSONSlice[model.CourseEntry](entries)}
}

func TestPostgresUserEmailUniqueAmongLiveRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	first := &model.User{Email: "asha@example.com", Roles: model.Roles{model.RoleUser}}
	require.NoError(t, users.Create(ctx, first))

	err := users.Create(ctx, &model.User{Email: "asha@example.com", Roles: model.Roles{model.RoleUser}})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, users.SoftDelete(ctx, first.ID, audit.None()))
	assert.NoError(t, users.Create(ctx, &model.User{Email: "asha@example.com", Roles: model.Roles{model.RoleUser}}))
}

func TestPostgresCollegeDeleteCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	colleges := repository.NewCollegeRepository(db)
	courses := repository.NewCourseRepository(db)

	withCourse := newCollege("North Campus", "TS")
	require.NoError(t, colleges.Create(ctx, withCourse))
	course := newCourse(withCourse.ID, "B.Tech")
	require.NoError(t, courses.Create(ctx, course))

	bare := newCollege("South Campus", "TS")
	require.NoError(t, colleges.Create(ctx, bare))

	deletedCourse, err := colleges.DeleteCascade(ctx, withCourse.ID, audit.User(42))
	require.NoError(t, err)
	assert.True(t, deletedCourse)

	_, err = colleges.FindByID(ctx, withCourse.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = courses.FindByID(ctx, course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var stamped model.Course
	require.NoError(t, db.Unscoped().First(&stamped, course.ID).Error)
	require.NotNil(t, stamped.DeletedBy)
	assert.Equal(t, uint(42), *stamped.DeletedBy)

	deletedCourse, err = colleges.DeleteCascade(ctx, bare.ID, audit.None())
	require.NoError(t, err)
	assert.False(t, deletedCourse)

	// the name is free again once the row is deleted
	assert.NoError(t, colleges.Create(ctx, newCollege("North Campus", "TS")))
}

func TestPostgresCallbackLimitUnderConcurrency(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	callbacks := repository.NewCallbackRepository(db)

	user := &model.User{Email: "busy@example.com", Roles: model.Roles{model.RoleUser}}
	require.NoError(t, users.Create(ctx, user))

	const limit = 3
	expireAt := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := callbacks.CreateWithinLimit(ctx, user.ID, limit, expireAt, audit.User(user.ID))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	pending, err := callbacks.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, pending, limit)

	created, count, err := callbacks.CreateWithinLimit(ctx, user.ID, limit, expireAt, audit.None())
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, int64(limit), count)
}

func TestPostgresCallbackPurgeExpired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	callbacks := repository.NewCallbackRepository(db)

	user := &model.User{Email: "late@example.com", Roles: model.Roles{model.RoleUser}}
	require.NoError(t, users.Create(ctx, user))

	_, _, err := callbacks.CreateWithinLimit(ctx, user.ID, 3, time.Now().Add(-time.Minute), audit.None())
	require.NoError(t, err)
	_, _, err = callbacks.CreateWithinLimit(ctx, user.ID, 3, time.Now().Add(time.Hour), audit.None())
	require.NoError(t, err)

	purged, err := callbacks.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestPostgresCallbackDeleteSkipsExpired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	callbacks := repository.NewCallbackRepository(db)

	user := &model.User{Email: "gone@example.com", Roles: model.Roles{model.RoleUser}}
	require.NoError(t, users.Create(ctx, user))

	_, _, err := callbacks.CreateWithinLimit(ctx, user.ID, 3, time.Now().Add(-time.Minute), audit.None())
	require.NoError(t, err)

	pending, err := callbacks.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	deleted, err := callbacks.DeleteByUser(ctx, user.ID, audit.None())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestPostgresListWithColleges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	colleges := repository.NewCollegeRepository(db)
	courses := repository.NewCourseRepository(db)

	for _, c := range []struct{ name, state, course string }{
		{"A", "TS", "B.Tech"},
		{"B", "KA", "B.Tech"},
		{"C", "TS", "MBA"},
	} {
		college := newCollege(c.name, c.state)
		require.NoError(t, colleges.Create(ctx, college))
		require.NoError(t, courses.Create(ctx, newCourse(college.ID, c.course)))
	}

	result, err := courses.ListWithColleges(ctx, repository.CourseFilter{
		CollegeFilter: repository.CollegeFilter{State: "TS"},
		CourseName:    "B.Tech",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalDocuments)
	require.Len(t, result.Courses, 1)
	require.NotNil(t, result.Courses[0].College)
	assert.Equal(t, "A", result.Courses[0].College.Name)

	swept, err := courses.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}
