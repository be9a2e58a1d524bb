package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// AttachmentAccessRepo is an append-only sink. Rows are written on every
// attachment serve and read back only for reporting.
type AttachmentAccessRepo interface {
	Append(ctx context.Context, tx *gorm.DB, access *types.AttachmentAccess) error
	ListByFileID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) ([]*types.AttachmentAccess, error)
}

type attachmentAccessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentAccessRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentAccessRepo {
	repoLog := baseLog.With("repo", "AttachmentAccessRepo")
	return &attachmentAccessRepo{db: db, log: repoLog}
}

func (r *attachmentAccessRepo) Append(ctx context.Context, tx *gorm.DB, access *types.AttachmentAccess) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(access).Error
}

func (r *attachmentAccessRepo) ListByFileID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) ([]*types.AttachmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AttachmentAccess
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("file_id = ?", fileID).
		Order("accessed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
