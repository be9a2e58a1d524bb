package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner kinds for StoredFile. One file entity serves every owning record
// type; the discriminator says which table OwnerID points at.
const (
	FileOwnerSEOLog        = "seo_log"
	FileOwnerReportSection = "report_section"
	FileOwnerCustomerLogo  = "customer_logo"
	FileOwnerSettingsLogo  = "settings_logo"
)

type StoredFile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerKind string    `gorm:"not null;index:idx_stored_file_owner;column:owner_kind" json:"owner_kind"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_stored_file_owner;column:owner_id" json:"owner_id"`

	OriginalName string `gorm:"not null;column:original_name" json:"original_name"`
	ContentType  string `gorm:"column:content_type" json:"content_type"`
	SizeBytes    int64  `gorm:"column:size_bytes" json:"size_bytes"`

	// StorageKey is the globally unique stored name. It is generated once at
	// creation and never reused or overwritten.
	StorageKey string `gorm:"uniqueIndex;not null;column:storage_key" json:"storage_key"`
	FileURL    string `gorm:"column:file_url" json:"file_url"`

	UploadedByID uuid.UUID `gorm:"type:uuid;not null;column:uploaded_by_id" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID;references:ID" json:"uploaded_by,omitempty"`

	Description string `gorm:"column:description" json:"description"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StoredFile) TableName() string { return "stored_file" }

// AttachmentAccess is an append-only audit row written every time a report
// attachment's bytes are served. It is never read back by the serving path.
type AttachmentAccess struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FileID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"file_id"`
	File       *StoredFile `gorm:"foreignKey:FileID;references:ID" json:"file,omitempty"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User       `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	AccessedAt time.Time   `gorm:"not null;column:accessed_at" json:"accessed_at"`
	SourceIP   string      `gorm:"column:source_ip" json:"source_ip"`
	UserAgent  string      `gorm:"column:user_agent" json:"user_agent"`
}

func (AttachmentAccess) TableName() string { return "attachment_access" }
