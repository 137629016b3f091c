package model

import (
	"time"

	"gorm.io/gorm"
)

// Audit carries the bookkeeping columns shared by every domain table.
// The *By columns are NULL when the acting user could not be resolved.
type Audit struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	IsDeleted bool           `gorm:"not null;default:false" json:"is_deleted"`
	CreatedBy *uint          `json:"created_by,omitempty"`
	UpdatedBy *uint          `json:"updated_by,omitempty"`
	DeletedBy *uint          `json:"deleted_by,omitempty"`
}
