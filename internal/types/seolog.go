package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WorkTypeOnPage    = "on_page"
	WorkTypeOffPage   = "off_page"
	WorkTypeTechnical = "technical"
	WorkTypeContent   = "content"
	WorkTypeAnalytics = "analytics"
	WorkTypeOther     = "other"
)

func ValidWorkType(wt string) bool {
	switch wt {
	case WorkTypeOnPage, WorkTypeOffPage, WorkTypeTechnical, WorkTypeContent, WorkTypeAnalytics, WorkTypeOther:
		return true
	}
	return false
}

type SEOLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Date      time.Time `gorm:"not null;column:date" json:"date"`
	WorkType  string    `gorm:"not null;column:work_type" json:"work_type"`

	// Description is HTML, sanitized through the allow-list on every save.
	Description string `gorm:"column:description" json:"description"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;column:created_by_id" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`

	// Collaborating providers beyond the author.
	Providers []*User       `gorm:"many2many:seo_log_provider;" json:"providers,omitempty"`
	Files     []*StoredFile `gorm:"-" json:"files,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SEOLog) TableName() string { return "seo_log" }
