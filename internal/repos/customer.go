package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type CustomerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, customers []*types.Customer) ([]*types.Customer, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error)
	GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.Customer, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error)
	Update(ctx context.Context, tx *gorm.DB, customer *types.Customer) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	repoLog := baseLog.With("repo", "CustomerRepo")
	return &customerRepo{db: db, log: repoLog}
}

func (r *customerRepo) Create(ctx context.Context, tx *gorm.DB, customers []*types.Customer) ([]*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(customers) == 0 {
		return []*types.Customer{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Customer
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *customerRepo) GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Customer
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *customerRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Customer
	if err := transaction.WithContext(ctx).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *customerRepo) Update(ctx context.Context, tx *gorm.DB, customer *types.Customer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(customer).Error
}

func (r *customerRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Customer{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
