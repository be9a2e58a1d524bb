package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type SectionOrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orders []*types.ReportSectionOrder) ([]*types.ReportSectionOrder, error)
	ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportSectionOrder, error)
	MaxPosition(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int, error)
	DeleteByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error
}

type sectionOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionOrderRepo(db *gorm.DB, baseLog *logger.Logger) SectionOrderRepo {
	repoLog := baseLog.With("repo", "SectionOrderRepo")
	return &sectionOrderRepo{db: db, log: repoLog}
}

func (r *sectionOrderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.ReportSectionOrder) ([]*types.ReportSectionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(orders) == 0 {
		return []*types.ReportSectionOrder{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Report", "Section").Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByReportID returns the join rows ascending by position. This ordering
// is what the renderer receives; section priority never participates here.
func (r *sectionOrderRepo) ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportSectionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ReportSectionOrder
	if err := transaction.WithContext(ctx).
		Preload("Section").
		Preload("Section.Logs").
		Preload("Section.Files").
		Where("report_id = ?", reportID).
		Order("position").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaxPosition must be called inside the same transaction as the insert that
// uses it, or two concurrent section additions could collide on position.
func (r *sectionOrderRepo) MaxPosition(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max int
	if err := transaction.WithContext(ctx).
		Model(&types.ReportSectionOrder{}).
		Where("report_id = ?", reportID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *sectionOrderRepo) DeleteByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("report_id = ?", reportID).
		Delete(&types.ReportSectionOrder{}).Error
}
