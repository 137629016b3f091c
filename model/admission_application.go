package model

const (
	AdmissionStatusApplied     = "APPLIED"
	AdmissionStatusInReview    = "IN_REVIEW"
	AdmissionStatusShortlisted = "SHORTLISTED"
	AdmissionStatusAdmitted    = "ADMITTED"
	AdmissionStatusRejected    = "REJECTED"
	AdmissionStatusWithdrawn   = "WITHDRAWN"
)

// IsValidAdmissionStatus reports whether s is a known application status
func IsValidAdmissionStatus(s string) bool {
	switch s {
	case AdmissionStatusApplied, AdmissionStatusInReview, AdmissionStatusShortlisted,
		AdmissionStatusAdmitted, AdmissionStatusRejected, AdmissionStatusWithdrawn:
		return true
	}
	return false
}

// AdmissionApplication is a user's application to a college.
type AdmissionApplication struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	UserID               uint   `gorm:"not null;index" json:"user_id"`
	CollegeID            uint   `gorm:"not null;index" json:"college_id"`
	CourseID             *uint  `gorm:"index" json:"course_id,omitempty"`
	ApplicantName        string `gorm:"type:varchar(255);not null" json:"applicant_name"`
	ApplicantMobile      string `gorm:"type:varchar(20);not null" json:"applicant_mobile"`
	ApplicantEmail       string `gorm:"type:varchar(255);not null" json:"applicant_email"`
	InterestedCourse     string `gorm:"type:varchar(255);not null" json:"interested_course"`
	ApplicantCurrentCity string `gorm:"type:varchar(100)" json:"applicant_current_city,omitempty"`
	Status               string `gorm:"type:varchar(20);not null;default:'APPLIED';index" json:"status"`
	Audit

	// Relationships
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	College *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID" json:"-"`
}

// TableName specifies the table name for AdmissionApplication
func (AdmissionApplication) TableName() string {
	return "admission_applications"
}
