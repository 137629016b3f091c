package model

import "gorm.io/datatypes"

// CourseEntry is one programme offered by a college.
type CourseEntry struct {
	CourseName  string   `json:"course_name" validate:"required,min=1,max=255"`
	Fee         string   `json:"fee" validate:"required"`
	Eligibility string   `json:"eligibility" validate:"required"`
	Duration    string   `json:"duration" validate:"required"`
	Branches    []string `json:"branches,omitempty"`
}

// Course holds the ordered list of programmes for exactly one college.
type Course struct {
	ID        uint                              `gorm:"primaryKey" json:"id"`
	CollegeID uint                              `gorm:"not null;uniqueIndex:idx_courses_college_live,where:deleted_at IS NULL" json:"college_id"`
	Entries   datatypes.JSONSlice[CourseEntry] `gorm:"type:jsonb;not null" json:"courses"`
	Audit

	// Relationships
	College *College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}
