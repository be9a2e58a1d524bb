package types

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings is one row per user, loaded explicitly by the operations
// that need it and passed in. Nothing materializes it lazily mid-request.
type UserSettings struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	NotifyNewProject bool `gorm:"column:notify_new_project;not null;default:true" json:"notify_new_project"`
	NotifyNewLog     bool `gorm:"column:notify_new_log;not null;default:true" json:"notify_new_log"`
	NotifyReport     bool `gorm:"column:notify_report;not null;default:true" json:"notify_report"`
	NotifyFile       bool `gorm:"column:notify_file;not null;default:true" json:"notify_file"`

	Theme      string `gorm:"column:theme;not null;default:'light'" json:"theme"`
	DateFormat string `gorm:"column:date_format;not null;default:'YYYY-MM-DD'" json:"date_format"`

	ReportFormat  string `gorm:"column:report_format;not null;default:'pdf'" json:"report_format"`
	ReportLogoKey string `gorm:"column:report_logo_key" json:"report_logo_key"`

	// Admin-only system settings.
	SMTPHost     string `gorm:"column:smtp_host" json:"smtp_host,omitempty"`
	SMTPPort     int    `gorm:"column:smtp_port" json:"smtp_port,omitempty"`
	SMTPSecurity string `gorm:"column:smtp_security;not null;default:'tls'" json:"smtp_security,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

// DefaultUserSettings are the values a freshly created settings row carries.
func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		ID:               uuid.New(),
		UserID:           userID,
		NotifyNewProject: true,
		NotifyNewLog:     true,
		NotifyReport:     true,
		NotifyFile:       true,
		Theme:            "light",
		DateFormat:       "YYYY-MM-DD",
		ReportFormat:     "pdf",
		SMTPSecurity:     "tls",
	}
}
