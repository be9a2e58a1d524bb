package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name    string    `gorm:"not null;column:name" json:"name"`
	Email   string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Website string    `gorm:"column:website" json:"website"`
	LogoKey string    `gorm:"column:logo_key" json:"logo_key"`

	// AccountID ties the customer record to its portal login. This is the
	// only join used for customer visibility; the legacy email-string match
	// is gone.
	AccountID *uuid.UUID `gorm:"type:uuid;index;column:account_id" json:"account_id,omitempty"`
	Account   *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:AccountID;references:ID" json:"account,omitempty"`

	IsActive  bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Customer) TableName() string { return "customer" }
