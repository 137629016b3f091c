// Package query parses path and query parameters into typed values and
// repository filters.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/repository"
)

// ID parses a positive integer path parameter
func ID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// Page returns the page and limit query values, normalized
func Page(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.NormalizePage(page, limit)
}

// Bool parses an optional boolean query value
func Bool(c *fiber.Ctx, keys ...string) (*bool, error) {
	raw := first(c, keys...)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", keys[0], raw)
	}
	return &v, nil
}

// Float parses an optional float query value
func Float(c *fiber.Ctx, keys ...string) (*float64, error) {
	raw := first(c, keys...)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", keys[0], raw)
	}
	return &v, nil
}

// CollegeFilter reads the college filter from the query string. Both
// snake_case and camelCase keys are accepted.
func CollegeFilter(c *fiber.Ctx) (repository.CollegeFilter, error) {
	featured, err := Bool(c, "featured")
	if err != nil {
		return repository.CollegeFilter{}, err
	}
	rating, err := Float(c, "rating", "min_rating")
	if err != nil {
		return repository.CollegeFilter{}, err
	}

	page, limit := Page(c)
	return repository.CollegeFilter{
		Name:        first(c, "name", "college_name", "collegeName"),
		City:        first(c, "city"),
		State:       first(c, "state"),
		CollegeType: first(c, "college_type", "collegeType"),
		Featured:    featured,
		MinRating:   rating,
		Page:        page,
		Limit:       limit,
	}, nil
}

// CourseFilter reads the course/college filter from the query string
func CourseFilter(c *fiber.Ctx) (repository.CourseFilter, error) {
	college, err := CollegeFilter(c)
	if err != nil {
		return repository.CourseFilter{}, err
	}
	return repository.CourseFilter{
		CollegeFilter: college,
		CourseName:    first(c, "course_name", "courseName"),
	}, nil
}

func first(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}
