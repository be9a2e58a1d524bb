package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type CustomerInput struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Website   string     `json:"website"`
	AccountID *uuid.UUID `json:"account_id,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*types.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input CustomerInput) (*types.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*types.Customer, error)
	ListCustomers(ctx context.Context) ([]*types.Customer, error)
}

type customerService struct {
	db           *gorm.DB
	log          *logger.Logger
	customerRepo repos.CustomerRepo
	userRepo     repos.UserRepo
}

func NewCustomerService(db *gorm.DB, log *logger.Logger, customerRepo repos.CustomerRepo, userRepo repos.UserRepo) CustomerService {
	serviceLog := log.With("service", "CustomerService")
	return &customerService{db: db, log: serviceLog, customerRepo: customerRepo, userRepo: userRepo}
}

func (cs *customerService) requireStaff(ctx context.Context) error {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if rd.Role != types.RoleAdmin && rd.Role != types.RoleProvider {
		return apierr.PermissionDenied("customers cannot manage customer records")
	}
	return nil
}

func (cs *customerService) validateAccount(ctx context.Context, accountID *uuid.UUID) error {
	if accountID == nil {
		return nil
	}
	account, err := cs.userRepo.GetByID(ctx, nil, *accountID)
	if err != nil {
		return notFoundOr(err, "account %s not found", *accountID)
	}
	if account.Role != types.RoleCustomer {
		return apierr.Validation("account %s is not a customer login", *accountID)
	}
	return nil
}

func (cs *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*types.Customer, error) {
	if err := cs.requireStaff(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, apierr.Validation("customer name is required")
	}
	if email == "" {
		return nil, apierr.Validation("customer email is required")
	}
	if err := cs.validateAccount(ctx, input.AccountID); err != nil {
		return nil, err
	}
	customer := &types.Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Website:   strings.TrimSpace(input.Website),
		AccountID: input.AccountID,
		IsActive:  true,
	}
	if _, err := cs.customerRepo.Create(ctx, nil, []*types.Customer{customer}); err != nil {
		return nil, fmt.Errorf("Failed to create customer: %w", err)
	}
	return customer, nil
}

func (cs *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input CustomerInput) (*types.Customer, error) {
	if err := cs.requireStaff(ctx); err != nil {
		return nil, err
	}
	customer, err := cs.customerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %s not found", id)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		customer.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		customer.Email = email
	}
	if input.Website != "" {
		customer.Website = strings.TrimSpace(input.Website)
	}
	if input.AccountID != nil {
		if err := cs.validateAccount(ctx, input.AccountID); err != nil {
			return nil, err
		}
		customer.AccountID = input.AccountID
	}
	if input.IsActive != nil {
		rd, _ := actorFromContext(ctx)
		if rd.Role != types.RoleAdmin {
			return nil, apierr.PermissionDenied("only administrators can change customer active state")
		}
		customer.IsActive = *input.IsActive
	}
	if err := cs.customerRepo.Update(ctx, nil, customer); err != nil {
		return nil, fmt.Errorf("Failed to update customer: %w", err)
	}
	return customer, nil
}

func (cs *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*types.Customer, error) {
	if err := cs.requireStaff(ctx); err != nil {
		return nil, err
	}
	customer, err := cs.customerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %s not found", id)
	}
	return customer, nil
}

func (cs *customerService) ListCustomers(ctx context.Context) ([]*types.Customer, error) {
	if err := cs.requireStaff(ctx); err != nil {
		return nil, err
	}
	return cs.customerRepo.List(ctx, nil)
}
