package model

import "time"

// CallbackRequest asks the admissions team to call a user back. It stops
// counting against the user's limit once ExpireAt has passed.
type CallbackRequest struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	ExpireAt time.Time `gorm:"not null;index" json:"expire_at"`
	Audit

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CallbackRequest
func (CallbackRequest) TableName() string {
	return "callback_requests"
}
