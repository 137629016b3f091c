package model

import "github.com/lib/pq"

// College is an institution listed on the platform.
type College struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_colleges_name_live,where:deleted_at IS NULL" json:"name"`
	Address     string         `gorm:"type:text" json:"address"`
	Contact     pq.StringArray `gorm:"type:text[]" json:"contact"`
	City        string         `gorm:"type:varchar(100);index" json:"city"`
	State       string         `gorm:"type:varchar(100);index" json:"state"`
	CollegeType pq.StringArray `gorm:"type:text[]" json:"college_type"`
	Established int            `json:"established"`
	University  string         `gorm:"type:varchar(255)" json:"university"`
	Logo        string         `gorm:"type:text" json:"logo"`
	Image       pq.StringArray `gorm:"type:text[]" json:"image"`
	Message     string         `gorm:"type:text" json:"message"`
	Details     string         `gorm:"type:text" json:"details"`
	Rating      float64        `gorm:"not null;default:0" json:"rating"`
	Featured    bool           `gorm:"not null;default:false" json:"featured"`
	Audit
}

// TableName specifies the table name for College
func (College) TableName() string {
	return "colleges"
}
