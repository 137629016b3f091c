package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository/repotest"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type publishedEvent struct {
	Type     string
	EntityID uint
}

type recordingEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingEvents) Publish(_ context.Context, eventType string, entityID uint, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{Type: eventType, EntityID: entityID})
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *repotest.Store
	events     *recordingEvents
	jwt        *auth.JWTManager
	users      *UserService
	auth       *AuthService
	colleges   *CollegeService
	courses    *CourseService
	admissions *AdmissionService
	callbacks  *CallbackService
}

const testCallbackLimit = 3

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repotest.NewStore()
	events := &recordingEvents{}
	log := zap.NewNop()
	hasher := auth.NewHasher(bcrypt.MinCost)
	jwt := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "thats-my-college-test"})

	return &fixture{
		store:      store,
		events:     events,
		jwt:        jwt,
		users:      NewUserService(store.Users(), hasher, events, log),
		auth:       NewAuthService(store.Users(), jwt, hasher, store.Blacklist(), events, log),
		colleges:   NewCollegeService(store.Colleges(), log),
		courses:    NewCourseService(store.Courses(), store.Colleges(), log),
		admissions: NewAdmissionService(store.Admissions(), store.Users(), store.Colleges(), store.Courses(), events, log),
		callbacks:  NewCallbackService(store.Callbacks(), testCallbackLimit, 24*time.Hour, log),
	}
}

func (f *fixture) signup(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.users.Signup(context.Background(), SignupInput{
		Email:     email,
		Phone:     "+919876543210",
		FirstName: "Test",
		Password:  "Passw0rd!",
		Gender:    model.GenderFemale,
	}, audit.None())
	require.NoError(t, err)
	return user
}

func (f *fixture) admin(t *testing.T, email string) *model.User {
	t.Helper()
	f.signup(t, email)
	user, err := f.users.UpdateRoles(context.Background(), email, []string{model.RoleAdmin}, audit.None())
	require.NoError(t, err)
	return user
}

func (f *fixture) college(t *testing.T, name, state string) *model.College {
	t.Helper()
	college, err := f.colleges.Create(context.Background(), CollegeInput{
		Name:        name,
		City:        "Hyderabad",
		State:       state,
		CollegeType: []string{"Private"},
		Rating:      4,
	}, audit.None())
	require.NoError(t, err)
	return college
}

func (f *fixture) course(t *testing.T, collegeID uint, names ...string) *model.Course {
	t.Helper()
	entries := make([]model.CourseEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, model.CourseEntry{CourseName: n, Fee: "100000", Eligibility: "12th", Duration: "4 years"})
	}
	course, err := f.courses.Create(context.Background(), collegeID, entries, audit.None())
	require.NoError(t, err)
	return course
}
