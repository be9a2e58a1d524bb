package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sections []*types.ReportSection) ([]*types.ReportSection, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportSection, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ReportSection, error)
	ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ReportSection, error)
	CountProjectsWithSections(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, section *types.ReportSection) error
	ReplaceLogs(ctx context.Context, tx *gorm.DB, section *types.ReportSection, logs []*types.SEOLog) error
	ReplaceFiles(ctx context.Context, tx *gorm.DB, section *types.ReportSection, files []*types.StoredFile) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	repoLog := baseLog.With("repo", "SectionRepo")
	return &sectionRepo{db: db, log: repoLog}
}

func (r *sectionRepo) Create(ctx context.Context, tx *gorm.DB, sections []*types.ReportSection) ([]*types.ReportSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sections) == 0 {
		return []*types.ReportSection{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Logs", "Files").Create(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ReportSection
	if err := transaction.WithContext(ctx).
		Preload("Project").
		Preload("Project.Customer").
		Preload("Logs").
		Preload("Files").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ReportSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ReportSection
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Logs").
		Preload("Files").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sectionRepo) ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ReportSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ReportSection
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("priority, created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sectionRepo) CountProjectsWithSections(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.ReportSection{}).
		Distinct("project_id")
	if len(projectIDs) > 0 {
		q = q.Where("project_id IN ?", projectIDs)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sectionRepo) Update(ctx context.Context, tx *gorm.DB, section *types.ReportSection) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Project", "Logs", "Files", "CreatedBy").Save(section).Error
}

func (r *sectionRepo) ReplaceLogs(ctx context.Context, tx *gorm.DB, section *types.ReportSection, logs []*types.SEOLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(section).Association("Logs").Replace(logs)
}

func (r *sectionRepo) ReplaceFiles(ctx context.Context, tx *gorm.DB, section *types.ReportSection, files []*types.StoredFile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(section).Association("Files").Replace(files)
}
