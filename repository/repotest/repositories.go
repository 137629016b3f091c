package repotest

import (
	"context"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"gorm.io/gorm"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if live(u.Audit) && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.s.id()
	if user.Roles == nil {
		user.Roles = model.Roles{model.RoleUser}
	}
	stampCreate(&user.Audit)
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || !live(u.Audit) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedIDs(r.s.users) {
		u := r.s.users[id]
		if live(u.Audit) && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.User
	for _, id := range sortedIDs(r.s.users) {
		if u := r.s.users[id]; live(u.Audit) {
			all = append(all, *u)
		}
	}
	return window(all, page, limit), int64(len(all)), nil
}

func (r *userRepo) Save(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if live(u.Audit) && u.ID != user.ID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) SoftDelete(_ context.Context, id uint, actor audit.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || !live(u.Audit) {
		return gorm.ErrRecordNotFound
	}
	markDeleted(&u.Audit, actor)
	return nil
}

func (r *userRepo) HardDelete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.users, id)
	return nil
}

type collegeRepo struct{ s *Store }

func (r *collegeRepo) Create(_ context.Context, college *model.College) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.colleges {
		if live(c.Audit) && c.Name == college.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	college.ID = r.s.id()
	stampCreate(&college.Audit)
	cp := *college
	r.s.colleges[college.ID] = &cp
	return nil
}

func (r *collegeRepo) FindByID(_ context.Context, id uint) (*model.College, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.colleges[id]
	if !ok || !live(c.Audit) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *collegeRepo) List(_ context.Context, filter repository.CollegeFilter) ([]model.College, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.College
	for _, id := range sortedIDs(r.s.colleges) {
		c := r.s.colleges[id]
		if live(c.Audit) && filter.Matches(c) {
			all = append(all, *c)
		}
	}
	return window(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r *collegeRepo) Save(_ context.Context, college *model.College) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.colleges {
		if live(c.Audit) && c.ID != college.ID && c.Name == college.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	college.UpdatedAt = time.Now()
	cp := *college
	r.s.colleges[college.ID] = &cp
	return nil
}

func (r *collegeRepo) DeleteCascade(_ context.Context, id uint, actor audit.Actor) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.colleges[id]
	if !ok || !live(c.Audit) {
		return false, gorm.ErrRecordNotFound
	}

	var course *model.Course
	for _, cr := range r.s.courses {
		if live(cr.Audit) && cr.CollegeID == id {
			course = cr
			break
		}
	}

	// nothing is written until both halves are known to succeed
	if course != nil && r.s.FailDeleteCourse != nil {
		return false, r.s.FailDeleteCourse
	}

	markDeleted(&c.Audit, actor)
	if course == nil {
		return false, nil
	}
	markDeleted(&course.Audit, actor)
	return true, nil
}

type courseRepo struct{ s *Store }

func (r *courseRepo) Create(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.courses {
		if live(c.Audit) && c.CollegeID == course.CollegeID {
			return gorm.ErrDuplicatedKey
		}
	}
	course.ID = r.s.id()
	stampCreate(&course.Audit)
	cp := *course
	cp.College = nil
	r.s.courses[course.ID] = &cp
	return nil
}

func (r *courseRepo) FindByID(_ context.Context, id uint) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || !live(c.Audit) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *courseRepo) FindByCollegeID(_ context.Context, collegeID uint) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedIDs(r.s.courses) {
		c := r.s.courses[id]
		if live(c.Audit) && c.CollegeID == collegeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *courseRepo) List(_ context.Context, page, limit int) ([]model.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Course
	for _, id := range sortedIDs(r.s.courses) {
		if c := r.s.courses[id]; live(c.Audit) {
			all = append(all, *c)
		}
	}
	return window(all, page, limit), int64(len(all)), nil
}

func (r *courseRepo) ListWithColleges(_ context.Context, filter repository.CourseFilter) (*repository.CourseListResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Course
	for _, id := range sortedIDs(r.s.courses) {
		c := r.s.courses[id]
		if !live(c.Audit) || !filter.MatchesEntries(c.Entries) {
			continue
		}

		var college *model.College
		if col, ok := r.s.colleges[c.CollegeID]; ok && live(col.Audit) {
			cp := *col
			college = &cp
		}
		if !filter.CollegeFilter.Matches(college) {
			continue
		}

		cp := *c
		cp.College = college
		matched = append(matched, cp)
	}

	return &repository.CourseListResult{
		Courses:        window(matched, filter.Page, filter.Limit),
		TotalDocuments: int64(len(matched)),
	}, nil
}

func (r *courseRepo) Save(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	course.UpdatedAt = time.Now()
	cp := *course
	cp.College = nil
	r.s.courses[course.ID] = &cp
	return nil
}

func (r *courseRepo) SoftDelete(_ context.Context, id uint, actor audit.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || !live(c.Audit) {
		return gorm.ErrRecordNotFound
	}
	markDeleted(&c.Audit, actor)
	return nil
}

func (r *courseRepo) SweepOrphans(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.courses {
		if !live(c.Audit) {
			continue
		}
		if col, ok := r.s.colleges[c.CollegeID]; ok && live(col.Audit) {
			continue
		}
		markDeleted(&c.Audit, audit.None())
		n++
	}
	return n, nil
}

type admissionRepo struct{ s *Store }

func (r *admissionRepo) withCollege(a *model.AdmissionApplication) model.AdmissionApplication {
	cp := *a
	if col, ok := r.s.colleges[a.CollegeID]; ok && live(col.Audit) {
		c := *col
		cp.College = &c
	}
	return cp
}

func (r *admissionRepo) Create(_ context.Context, application *model.AdmissionApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	application.ID = r.s.id()
	stampCreate(&application.Audit)
	cp := *application
	cp.College = nil
	r.s.admissions[application.ID] = &cp
	return nil
}

func (r *admissionRepo) FindByID(_ context.Context, id uint) (*model.AdmissionApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admissions[id]
	if !ok || !live(a.Audit) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := r.withCollege(a)
	return &cp, nil
}

func (r *admissionRepo) List(_ context.Context, page, limit int) ([]model.AdmissionApplication, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []model.AdmissionApplication{}
	for _, id := range sortedIDs(r.s.admissions) {
		if a := r.s.admissions[id]; live(a.Audit) {
			all = append(all, r.withCollege(a))
		}
	}
	return window(all, page, limit), int64(len(all)), nil
}

func (r *admissionRepo) ListByUser(_ context.Context, userID uint) ([]model.AdmissionApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.AdmissionApplication{}
	for _, id := range sortedIDs(r.s.admissions) {
		if a := r.s.admissions[id]; live(a.Audit) && a.UserID == userID {
			out = append(out, r.withCollege(a))
		}
	}
	return out, nil
}

func (r *admissionRepo) Save(_ context.Context, application *model.AdmissionApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	application.UpdatedAt = time.Now()
	cp := *application
	cp.College = nil
	r.s.admissions[application.ID] = &cp
	return nil
}

func (r *admissionRepo) SoftDelete(_ context.Context, id uint, actor audit.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admissions[id]
	if !ok || !live(a.Audit) {
		return gorm.ErrRecordNotFound
	}
	markDeleted(&a.Audit, actor)
	return nil
}

type callbackRepo struct{ s *Store }

func (r *callbackRepo) CreateWithinLimit(_ context.Context, userID uint, limit int, expireAt time.Time, actor audit.Actor) (*model.CallbackRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; !ok || !live(u.Audit) {
		return nil, 0, gorm.ErrRecordNotFound
	}

	var count int64
	now := time.Now()
	for _, cb := range r.s.callbacks {
		if cb.UserID == userID && live(cb.Audit) && cb.ExpireAt.After(now) {
			count++
		}
	}
	if count >= int64(limit) {
		return nil, count, nil
	}

	created := &model.CallbackRequest{
		ID:       r.s.id(),
		UserID:   userID,
		ExpireAt: expireAt,
		Audit:    model.Audit{CreatedBy: actor.Ptr(), UpdatedBy: actor.Ptr()},
	}
	stampCreate(&created.Audit)
	cp := *created
	r.s.callbacks[created.ID] = &cp
	return created, count, nil
}

func (r *callbackRepo) ListByUser(_ context.Context, userID uint) ([]model.CallbackRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CallbackRequest
	now := time.Now()
	for _, id := range sortedIDs(r.s.callbacks) {
		cb := r.s.callbacks[id]
		if cb.UserID == userID && live(cb.Audit) && cb.ExpireAt.After(now) {
			out = append(out, *cb)
		}
	}
	return out, nil
}

func (r *callbackRepo) DeleteByUser(_ context.Context, userID uint, actor audit.Actor) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now()
	for _, cb := range r.s.callbacks {
		if cb.UserID == userID && live(cb.Audit) && cb.ExpireAt.After(now) {
			markDeleted(&cb.Audit, actor)
			n++
		}
	}
	return n, nil
}

func (r *callbackRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, cb := range r.s.callbacks {
		if !cb.ExpireAt.After(now) {
			delete(r.s.callbacks, id)
			n++
		}
	}
	return n, nil
}
