package services

import (
	"time"

	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/auth"
	"go.uber.org/zap"
)

// Repositories is the storage the services run on
type Repositories struct {
	Users      repository.UserRepository
	Colleges   repository.CollegeRepository
	Courses    repository.CourseRepository
	Admissions repository.AdmissionRepository
	Callbacks  repository.CallbackRepository
	Blacklist  TokenBlacklist
}

// Options are the tunables read from configuration
type Options struct {
	CallbackLimit int
	CallbackTTL   time.Duration
}

// Set holds one instance of every service
type Set struct {
	Auth       *AuthService
	Users      *UserService
	Colleges   *CollegeService
	Courses    *CourseService
	Admissions *AdmissionService
	Callbacks  *CallbackService
}

// NewSet wires every service over the given repositories
func NewSet(repos Repositories, jwt *auth.JWTManager, hasher *auth.Hasher, events EventPublisher, opts Options, log *zap.Logger) *Set {
	return &Set{
		Auth:       NewAuthService(repos.Users, jwt, hasher, repos.Blacklist, events, log),
		Users:      NewUserService(repos.Users, hasher, events, log),
		Colleges:   NewCollegeService(repos.Colleges, log),
		Courses:    NewCourseService(repos.Courses, repos.Colleges, log),
		Admissions: NewAdmissionService(repos.Admissions, repos.Users, repos.Colleges, repos.Courses, events, log),
		Callbacks:  NewCallbackService(repos.Callbacks, opts.CallbackLimit, opts.CallbackTTL, log),
	}
}
