package model

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// IsValidGender reports whether g is an accepted gender value
func IsValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User is a registered account. Users created through OAuth login have no
// password hash and cannot authenticate with a password.
type User struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_live,where:deleted_at IS NULL" json:"email"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	FirstName     string `gorm:"type:varchar(100)" json:"first_name"`
	LastName      string `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	PasswordHash  string `json:"-"` // never serialized
	Roles         Roles  `gorm:"type:text[];not null;default:'{USER}'" json:"roles"`
	Gender        string `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Qualification string `gorm:"type:varchar(255)" json:"qualification,omitempty"`
	ProfilePic    string `gorm:"type:text" json:"profile_pic,omitempty"`
	TokenVersion  int    `gorm:"not null;default:0" json:"-"`
	Audit
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
