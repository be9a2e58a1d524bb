package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func actorFromContext(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.PermissionDenied("no authenticated principal on request")
	}
	return rd, nil
}

// canViewProject implements the shared visibility rule: admins see
// everything, providers see assigned projects while project and customer
// are both active, customers see their own projects through the account
// foreign key.
func canViewProject(
	ctx context.Context,
	tx *gorm.DB,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	rd *requestdata.RequestData,
	project *types.Project,
) (bool, error) {
	switch rd.Role {
	case types.RoleAdmin:
		return true, nil
	case types.RoleProvider:
		if !project.Visible() {
			return false, nil
		}
		return projectRepo.IsProviderAssigned(ctx, tx, project.ID, rd.UserID)
	case types.RoleCustomer:
		if !project.Visible() {
			return false, nil
		}
		customer, err := customerRepo.GetByAccountID(ctx, tx, rd.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return customer.ID == project.CustomerID, nil
	default:
		return false, nil
	}
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(format, args...)
	}
	return err
}
