package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type SEOLogFilter struct {
	Search      string
	ProjectID   *uuid.UUID
	WorkType    string
	DateFrom    *time.Time
	CreatedByID *uuid.UUID
	ProviderID  *uuid.UUID // restrict to logs on projects assigned to this provider
	Limit       int
}

type SEOLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.SEOLog) ([]*types.SEOLog, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SEOLog, error)
	List(ctx context.Context, tx *gorm.DB, filter SEOLogFilter) ([]*types.SEOLog, error)
	ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SEOLog, error)
	ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.SEOLog, error)
	Update(ctx context.Context, tx *gorm.DB, log *types.SEOLog) error
	ReplaceProviders(ctx context.Context, tx *gorm.DB, log *types.SEOLog, providers []*types.User) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type seoLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSEOLogRepo(db *gorm.DB, baseLog *logger.Logger) SEOLogRepo {
	repoLog := baseLog.With("repo", "SEOLogRepo")
	return &seoLogRepo{db: db, log: repoLog}
}

func (r *seoLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.SEOLog) ([]*types.SEOLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.SEOLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *seoLogRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SEOLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.SEOLog
	if err := transaction.WithContext(ctx).
		Preload("Project").
		Preload("Project.Customer").
		Preload("CreatedBy").
		Preload("Providers").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *seoLogRepo) List(ctx context.Context, tx *gorm.DB, filter SEOLogFilter) ([]*types.SEOLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.SEOLog{}).
		Preload("Project").
		Preload("CreatedBy")
	if filter.Search != "" {
		q = q.Where("seo_log.description LIKE ?", "%"+filter.Search+"%")
	}
	if filter.ProjectID != nil {
		q = q.Where("seo_log.project_id = ?", *filter.ProjectID)
	}
	if filter.WorkType != "" {
		q = q.Where("seo_log.work_type = ?", filter.WorkType)
	}
	if filter.DateFrom != nil {
		q = q.Where("seo_log.date >= ?", *filter.DateFrom)
	}
	if filter.CreatedByID != nil {
		q = q.Where("seo_log.created_by_id = ?", *filter.CreatedByID)
	}
	if filter.ProviderID != nil {
		q = q.Joins("JOIN project_provider pp ON pp.project_id = seo_log.project_id").
			Where("pp.user_id = ?", *filter.ProviderID)
	}
	q = q.Order("seo_log.date DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var results []*types.SEOLog
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *seoLogRepo) ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SEOLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SEOLog
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

func (r *seoLogRepo) ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.SEOLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SEOLog
	if err := transaction.WithContext(ctx).
		Preload("CreatedBy").
		Where("project_id = ?", projectID).
		Order("date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *seoLogRepo) Update(ctx context.Context, tx *gorm.DB, log *types.SEOLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Project", "CreatedBy", "Providers").Save(log).Error
}

func (r *seoLogRepo) ReplaceProviders(ctx context.Context, tx *gorm.DB, log *types.SEOLog, providers []*types.User) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(log).Association("Providers").Replace(providers)
}

func (r *seoLogRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SEOLog{}).Error
}
