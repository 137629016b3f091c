// Package repotest provides in-memory implementations of the repository
// interfaces for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
)

// Store holds every table in memory. All repositories returned by one Store
// share its data, so cascades across tables behave like the real database.
type Store struct {
	mu     sync.Mutex
	nextID uint

	users      map[uint]*model.User
	colleges   map[uint]*model.College
	courses    map[uint]*model.Course
	admissions map[uint]*model.AdmissionApplication
	callbacks  map[uint]*model.CallbackRequest
	revoked    map[string]time.Time

	// FailDeleteCourse makes the course half of a cascade fail, to exercise rollback.
	FailDeleteCourse error
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		users:      map[uint]*model.User{},
		colleges:   map[uint]*model.College{},
		courses:    map[uint]*model.Course{},
		admissions: map[uint]*model.AdmissionApplication{},
		callbacks:  map[uint]*model.CallbackRequest{},
		revoked:    map[string]time.Time{},
	}
}

func (s *Store) Users() repository.UserRepository           { return &userRepo{s} }
func (s *Store) Colleges() repository.CollegeRepository     { return &collegeRepo{s} }
func (s *Store) Courses() repository.CourseRepository       { return &courseRepo{s} }
func (s *Store) Admissions() repository.AdmissionRepository { return &admissionRepo{s} }
func (s *Store) Callbacks() repository.CallbackRepository   { return &callbackRepo{s} }
func (s *Store) Blacklist() *Blacklist                      { return &Blacklist{s} }

// CallbackCount returns the number of live callback rows for a user, expired or not
func (s *Store) CallbackCount(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, cb := range s.callbacks {
		if cb.UserID == userID && live(cb.Audit) {
			n++
		}
	}
	return n
}

// ExpireCallbacks moves every callback expiry for the user into the past
func (s *Store) ExpireCallbacks(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cb := range s.callbacks {
		if cb.UserID == userID {
			cb.ExpireAt = time.Now().Add(-time.Minute)
		}
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func live(a model.Audit) bool {
	return !a.DeletedAt.Valid
}

func stampCreate(a *model.Audit) {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

func markDeleted(a *model.Audit, actor audit.Actor) {
	a.IsDeleted = true
	a.DeletedBy = actor.Ptr()
	a.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
}

func window[T any](items []T, page, limit int) []T {
	page, limit = repository.NormalizePage(page, limit)
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedIDs[T any](m map[uint]T) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Blacklist is an in-memory token revocation list
type Blacklist struct{ s *Store }

func (b *Blacklist) RevokeToken(_ context.Context, jti string, _ uint, expiresAt time.Time, _ string) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.revoked[jti] = expiresAt
	return nil
}

func (b *Blacklist) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	exp, ok := b.s.revoked[jti]
	return ok && exp.After(time.Now()), nil
}

func (b *Blacklist) CleanupExpiredTokens(_ context.Context) (int64, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var n int64
	for jti, exp := range b.s.revoked {
		if !exp.After(time.Now()) {
			delete(b.s.revoked, jti)
			n++
		}
	}
	return n, nil
}

// DeleteCollegeOnly soft-deletes a college and leaves its course record
// behind, the state the orphan sweep cleans up.
func (s *Store) DeleteCollegeOnly(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.colleges[id]; ok {
		markDeleted(&c.Audit, audit.None())
	}
}
