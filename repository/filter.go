package repository

import (
	"encoding/json"
	"strings"

	"github.com/sahilchouksey/thats-my-college/model"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// NormalizePage applies the default page and limit and caps the limit
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// CollegeFilter narrows colleges by their attributes. Empty fields do not filter.
type CollegeFilter struct {
	Name        string   // case-insensitive substring
	City        string   // case-insensitive substring
	State       string   // exact
	CollegeType string   // exact element of college_type
	Featured    *bool    // exact
	MinRating   *float64 // rating >= MinRating
	Page        int
	Limit       int
}

// Active reports whether any attribute filter is set
func (f CollegeFilter) Active() bool {
	return f.Name != "" || f.City != "" || f.State != "" || f.CollegeType != "" ||
		f.Featured != nil || f.MinRating != nil
}

// Pagination returns the normalized page, limit and row offset
func (f CollegeFilter) Pagination() (page, limit, offset int) {
	page, limit = NormalizePage(f.Page, f.Limit)
	return page, limit, (page - 1) * limit
}

// Scope adds the attribute predicates against the given colleges table alias
func (f CollegeFilter) Scope(table string) func(*gorm.DB) *gorm.DB {
	col := func(name string) string { return table + "." + name }

	return func(db *gorm.DB) *gorm.DB {
		if f.Name != "" {
			db = db.Where(col("name")+" ILIKE ?", "%"+escapeLike(f.Name)+"%")
		}
		if f.City != "" {
			db = db.Where(col("city")+" ILIKE ?", "%"+escapeLike(f.City)+"%")
		}
		if f.State != "" {
			db = db.Where(col("state")+" = ?", f.State)
		}
		if f.CollegeType != "" {
			db = db.Where("? = ANY("+col("college_type")+")", f.CollegeType)
		}
		if f.Featured != nil {
			db = db.Where(col("featured")+" = ?", *f.Featured)
		}
		if f.MinRating != nil {
			db = db.Where(col("rating")+" >= ?", *f.MinRating)
		}
		return db
	}
}

// Matches evaluates the filter in memory with the same semantics as Scope
func (f CollegeFilter) Matches(c *model.College) bool {
	if c == nil {
		return !f.Active()
	}
	if f.Name != "" && !containsFold(c.Name, f.Name) {
		return false
	}
	if f.City != "" && !containsFold(c.City, f.City) {
		return false
	}
	if f.State != "" && c.State != f.State {
		return false
	}
	if f.CollegeType != "" {
		found := false
		for _, t := range c.CollegeType {
			if t == f.CollegeType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Featured != nil && c.Featured != *f.Featured {
		return false
	}
	if f.MinRating != nil && c.Rating < *f.MinRating {
		return false
	}
	return true
}

// CourseFilter drives the course listing joined with college details.
type CourseFilter struct {
	CollegeFilter
	CourseName string // exact match on an entry's course_name
}

// CourseListResult is one page of courses plus the total across all pages
type CourseListResult struct {
	Courses        []model.Course `json:"courses"`
	TotalDocuments int64          `json:"total_documents"`
}

// Scope builds the filtered courses/colleges join without pagination
func (f CourseFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CourseName != "" {
			probe, _ := json.Marshal([]map[string]string{{"course_name": f.CourseName}})
			db = db.Where("courses.entries @> CAST(? AS jsonb)", string(probe))
		}

		db = db.Joins("LEFT JOIN colleges ON colleges.id = courses.college_id AND colleges.deleted_at IS NULL")

		return db.Scopes(f.CollegeFilter.Scope("colleges"))
	}
}

// MatchesEntries reports whether any entry has the requested course name
func (f CourseFilter) MatchesEntries(entries []model.CourseEntry) bool {
	if f.CourseName == "" {
		return true
	}
	for _, e := range entries {
		if e.CourseName == f.CourseName {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
