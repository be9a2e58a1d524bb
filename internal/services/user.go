package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, firstName, lastName string) (*types.User, error)
	ListProviders(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", rd.UserID)
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, firstName, lastName string) (*types.User, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, apierr.Validation("first and last name are required")
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", rd.UserID)
	}
	user.FirstName = firstName
	user.LastName = lastName
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("Failed to update profile: %w", err)
	}
	return user, nil
}

// ListProviders backs the assignment pickers on project and log screens.
func (us *userService) ListProviders(ctx context.Context) ([]*types.User, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role == types.RoleCustomer {
		return nil, apierr.PermissionDenied("customers cannot list providers")
	}
	return us.userRepo.ListByRole(ctx, nil, types.RoleProvider)
}
