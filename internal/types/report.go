package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ReportStatusDraft     = "draft"
	ReportStatusInReview  = "in_review"
	ReportStatusApproved  = "approved"
	ReportStatusPublished = "published"
	ReportStatusArchived  = "archived"
)

func ValidReportStatus(status string) bool {
	switch status {
	case ReportStatusDraft, ReportStatusInReview, ReportStatusApproved, ReportStatusPublished, ReportStatusArchived:
		return true
	}
	return false
}

type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`

	Title       string `gorm:"not null;column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Status      string `gorm:"not null;default:'draft';column:status" json:"status"`

	// Version mirrors the max ReportVersion.VersionNumber for convenience.
	Version int `gorm:"not null;default:0;column:version" json:"version"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;column:created_by_id" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`

	LastReviewedByID *uuid.UUID `gorm:"type:uuid;column:last_reviewed_by_id" json:"last_reviewed_by_id,omitempty"`
	LastReviewedBy   *User      `gorm:"foreignKey:LastReviewedByID;references:ID" json:"last_reviewed_by,omitempty"`
	LastReviewedAt   *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	ReviewNotes      string     `gorm:"column:review_notes" json:"review_notes"`

	PublishDate *time.Time `gorm:"column:publish_date" json:"publish_date,omitempty"`

	SectionOrders []*ReportSectionOrder `gorm:"foreignKey:ReportID;references:ID" json:"section_orders,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Report) TableName() string { return "report" }

// ReportSectionOrder pins a section into a report at an explicit position.
// The (report_id, position) pair is unique; this join table, not section
// priority, is authoritative for rendering order.
type ReportSectionOrder struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReportID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_report_position;index" json:"report_id"`
	Report    *Report        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReportID;references:ID" json:"report,omitempty"`
	SectionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"section_id"`
	Section   *ReportSection `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`

	Position int `gorm:"not null;uniqueIndex:uniq_report_position;column:position" json:"position"`

	// PageBreakBefore defaults to true: one section per page unless turned
	// off explicitly.
	PageBreakBefore bool `gorm:"not null;default:true;column:page_break_before" json:"page_break_before"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ReportSectionOrder) TableName() string { return "report_section_order" }

// ReportVersion is an immutable snapshot marker. Version numbers are unique
// per report and never reused, even after a version row is deleted.
type ReportVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReportID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_report_version;index" json:"report_id"`
	Report        *Report   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReportID;references:ID" json:"report,omitempty"`
	VersionNumber int       `gorm:"not null;uniqueIndex:uniq_report_version;column:version_number" json:"version_number"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;column:created_by_id" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`

	Changes string `gorm:"column:changes" json:"changes"`

	// Layout records the section arrangement as of this version, so older
	// versions stay readable after the live layout moves on.
	Layout datatypes.JSON `gorm:"column:layout" json:"layout,omitempty"`

	// Optional rendered PDF snapshot taken at version-creation time.
	PDFSnapshotKey string `gorm:"column:pdf_snapshot_key" json:"pdf_snapshot_key,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReportVersion) TableName() string { return "report_version" }
