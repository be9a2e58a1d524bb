package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// ProjectFilter mirrors the list-screen filters: name search, lifecycle
// status by end date, and customer.
type ProjectFilter struct {
	Search     string
	Status     string // "active" (no end date) | "completed" (end date set)
	CustomerID *uuid.UUID
}

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB, filter ProjectFilter) ([]*types.Project, error)
	ListByProviderID(ctx context.Context, tx *gorm.DB, providerID uuid.UUID, filter ProjectFilter) ([]*types.Project, error)
	ListByCustomerID(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, filter ProjectFilter) ([]*types.Project, error)
	Update(ctx context.Context, tx *gorm.DB, project *types.Project) error
	ReplaceProviders(ctx context.Context, tx *gorm.DB, project *types.Project, providers []*types.User) error
	IsProviderAssigned(ctx context.Context, tx *gorm.DB, projectID, providerID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(projects) == 0 {
		return []*types.Project{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Project
	if err := transaction.WithContext(ctx).
		Preload("Customer").
		Preload("Providers").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func applyProjectFilter(q *gorm.DB, filter ProjectFilter) *gorm.DB {
	if filter.Search != "" {
		q = q.Where("project.name LIKE ?", "%"+filter.Search+"%")
	}
	switch filter.Status {
	case "active":
		q = q.Where("project.end_date IS NULL")
	case "completed":
		q = q.Where("project.end_date IS NOT NULL")
	}
	if filter.CustomerID != nil {
		q = q.Where("project.customer_id = ?", *filter.CustomerID)
	}
	return q.Order("project.start_date DESC")
}

func (r *projectRepo) List(ctx context.Context, tx *gorm.DB, filter ProjectFilter) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	q := transaction.WithContext(ctx).Preload("Customer")
	if err := applyProjectFilter(q, filter).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) ListByProviderID(ctx context.Context, tx *gorm.DB, providerID uuid.UUID, filter ProjectFilter) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	q := transaction.WithContext(ctx).
		Preload("Customer").
		Joins("JOIN project_provider pp ON pp.project_id = project.id").
		Joins("JOIN customer ON customer.id = project.customer_id").
		Where("pp.user_id = ?", providerID).
		Where("project.is_active = ?", true).
		Where("customer.is_active = ?", true)
	if err := applyProjectFilter(q, filter).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) ListByCustomerID(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, filter ProjectFilter) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	q := transaction.WithContext(ctx).
		Preload("Customer").
		Joins("JOIN customer ON customer.id = project.customer_id").
		Where("project.customer_id = ?", customerID).
		Where("project.is_active = ?", true).
		Where("customer.is_active = ?", true)
	if err := applyProjectFilter(q, filter).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Providers", "Customer").Save(project).Error
}

func (r *projectRepo) ReplaceProviders(ctx context.Context, tx *gorm.DB, project *types.Project, providers []*types.User) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(project).Association("Providers").Replace(providers)
}

func (r *projectRepo) IsProviderAssigned(ctx context.Context, tx *gorm.DB, projectID, providerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Table("project_provider").
		Where("project_id = ? AND user_id = ?", projectID, providerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *projectRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("end_date IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
