package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportSection is a reusable block of report content. It belongs to a
// project, not to a report; reports pull sections in through
// ReportSectionOrder.
type ReportSection struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`

	Title   string `gorm:"not null;column:title" json:"title"`
	Content string `gorm:"not null;column:content" json:"content"`

	// Priority is the user-assigned default ordering hint, lower prints
	// first. Positive integer. Per-report order lives on the join row.
	Priority int `gorm:"not null;default:1;column:priority" json:"priority"`

	Logs  []*SEOLog     `gorm:"many2many:report_section_log;" json:"logs,omitempty"`
	Files []*StoredFile `gorm:"many2many:report_section_file;" json:"files,omitempty"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;column:created_by_id" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReportSection) TableName() string { return "report_section" }
