package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type StoredFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.StoredFile) ([]*types.StoredFile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StoredFile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StoredFile, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerKind string, ownerID uuid.UUID) ([]*types.StoredFile, error)
	ListByOwners(ctx context.Context, tx *gorm.DB, ownerKind string, ownerIDs []uuid.UUID) ([]*types.StoredFile, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerKind string, ownerID uuid.UUID) error
	TotalSize(ctx context.Context, tx *gorm.DB) (int64, error)
}

type storedFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoredFileRepo(db *gorm.DB, baseLog *logger.Logger) StoredFileRepo {
	repoLog := baseLog.With("repo", "StoredFileRepo")
	return &storedFileRepo{db: db, log: repoLog}
}

func (r *storedFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.StoredFile) ([]*types.StoredFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(files) == 0 {
		return []*types.StoredFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *storedFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StoredFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.StoredFile
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *storedFileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StoredFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StoredFile
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *storedFileRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerKind string, ownerID uuid.UUID) ([]*types.StoredFile, error) {
	return r.ListByOwners(ctx, tx, ownerKind, []uuid.UUID{ownerID})
}

func (r *storedFileRepo) ListByOwners(ctx context.Context, tx *gorm.DB, ownerKind string, ownerIDs []uuid.UUID) ([]*types.StoredFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StoredFile
	if len(ownerIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("owner_kind = ? AND owner_id IN ?", ownerKind, ownerIDs).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *storedFileRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.StoredFile{}).Error
}

func (r *storedFileRepo) SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerKind string, ownerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", ownerKind, ownerID).
		Delete(&types.StoredFile{}).Error
}

func (r *storedFileRepo) TotalSize(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.StoredFile{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
