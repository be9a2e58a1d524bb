package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type ReportVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, versions []*types.ReportVersion) ([]*types.ReportVersion, error)
	ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportVersion, error)
	MaxVersionNumber(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int, error)
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type reportVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportVersionRepo(db *gorm.DB, baseLog *logger.Logger) ReportVersionRepo {
	repoLog := baseLog.With("repo", "ReportVersionRepo")
	return &reportVersionRepo{db: db, log: repoLog}
}

func (r *reportVersionRepo) Create(ctx context.Context, tx *gorm.DB, versions []*types.ReportVersion) ([]*types.ReportVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(versions) == 0 {
		return []*types.ReportVersion{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Report", "CreatedBy").Create(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *reportVersionRepo) ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ReportVersion
	if err := transaction.WithContext(ctx).
		Preload("CreatedBy").
		Where("report_id = ?", reportID).
		Order("version_number DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaxVersionNumber scans unscoped so that soft-deleted version rows still
// pin their numbers: a deleted version never frees its slot.
func (r *reportVersionRepo) MaxVersionNumber(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max int
	if err := transaction.WithContext(ctx).
		Unscoped().
		Model(&types.ReportVersion{}).
		Where("report_id = ?", reportID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *reportVersionRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ReportVersion{}).Error
}
