package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/sanitize"
	"github.com/yungbote/seoportal-backend/internal/storage"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// LogVisibility decides which logs a provider sees within an assigned
// project: only their own, or every log on the project.
type LogVisibility string

const (
	LogVisibilityOwn     LogVisibility = "own"
	LogVisibilityProject LogVisibility = "project"
)

func ParseLogVisibility(raw string) LogVisibility {
	if LogVisibility(strings.ToLower(strings.TrimSpace(raw))) == LogVisibilityProject {
		return LogVisibilityProject
	}
	return LogVisibilityOwn
}

type SEOLogInput struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	WorkType    string     `json:"work_type"`
	Description string     `json:"description"`
	WorkDate    time.Time  `json:"work_date"`
	ProviderIDs []uuid.UUID `json:"provider_ids,omitempty"`
}

type SEOLogService interface {
	CreateLog(ctx context.Context, input SEOLogInput) (*types.SEOLog, error)
	UpdateLog(ctx context.Context, id uuid.UUID, input SEOLogInput) (*types.SEOLog, error)
	GetLog(ctx context.Context, id uuid.UUID) (*types.SEOLog, error)
	ListLogs(ctx context.Context, filter repos.SEOLogFilter) ([]*types.SEOLog, error)
	DeleteLog(ctx context.Context, id uuid.UUID) error
}

type seoLogService struct {
	db           *gorm.DB
	log          *logger.Logger
	logRepo      repos.SEOLogRepo
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	userRepo     repos.UserRepo
	fileRepo     repos.StoredFileRepo
	store        storage.Store
	bus          *events.Bus
	visibility   LogVisibility
}

func NewSEOLogService(
	db *gorm.DB,
	log *logger.Logger,
	logRepo repos.SEOLogRepo,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	userRepo repos.UserRepo,
	fileRepo repos.StoredFileRepo,
	store storage.Store,
	bus *events.Bus,
	visibility LogVisibility,
) SEOLogService {
	serviceLog := log.With("service", "SEOLogService")
	return &seoLogService{
		db:           db,
		log:          serviceLog,
		logRepo:      logRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		fileRepo:     fileRepo,
		store:        store,
		bus:          bus,
		visibility:   visibility,
	}
}

func (ls *seoLogService) validateInput(input SEOLogInput) error {
	if !types.ValidWorkType(input.WorkType) {
		return apierr.Validation("invalid work type %q", input.WorkType)
	}
	if strings.TrimSpace(input.Description) == "" {
		return apierr.Validation("description is required")
	}
	if input.WorkDate.IsZero() {
		return apierr.Validation("work date is required")
	}
	return nil
}

// canWriteLogs gates log creation: admins anywhere, providers only on
// projects they are assigned to. Customers are read-only.
func (ls *seoLogService) canWriteLogs(ctx context.Context, rd *requestdata.RequestData, project *types.Project) error {
	switch rd.Role {
	case types.RoleAdmin:
		return nil
	case types.RoleProvider:
		assigned, err := ls.projectRepo.IsProviderAssigned(ctx, nil, project.ID, rd.UserID)
		if err != nil {
			return fmt.Errorf("Failed to check project assignment: %w", err)
		}
		if !assigned {
			return apierr.PermissionDenied("you are not assigned to this project")
		}
		return nil
	default:
		return apierr.PermissionDenied("customers cannot record work logs")
	}
}

func (ls *seoLogService) CreateLog(ctx context.Context, input SEOLogInput) (*types.SEOLog, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := ls.validateInput(input); err != nil {
		return nil, err
	}
	project, err := ls.projectRepo.GetByID(ctx, nil, input.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", input.ProjectID)
	}
	if err := ls.canWriteLogs(ctx, rd, project); err != nil {
		return nil, err
	}

	entry := &types.SEOLog{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		WorkType:    input.WorkType,
		Description: sanitize.HTML(input.Description),
		Date:        input.WorkDate,
		CreatedByID: rd.UserID,
	}
	providerIDs := input.ProviderIDs
	if len(providerIDs) == 0 && rd.Role == types.RoleProvider {
		providerIDs = []uuid.UUID{rd.UserID}
	}
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ls.logRepo.Create(ctx, tx, []*types.SEOLog{entry}); err != nil {
			return fmt.Errorf("Failed to create work log: %w", err)
		}
		if len(providerIDs) > 0 {
			providers, err := ls.userRepo.GetByIDs(ctx, tx, providerIDs)
			if err != nil {
				return fmt.Errorf("Failed to load providers: %w", err)
			}
			if len(providers) != len(providerIDs) {
				return apierr.NotFound("one or more providers not found")
			}
			if err := ls.logRepo.ReplaceProviders(ctx, tx, entry, providers); err != nil {
				return fmt.Errorf("Failed to attach providers: %w", err)
			}
			entry.Providers = providers
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recipients := []uuid.UUID{}
	if customer, err := ls.customerRepo.GetByID(ctx, nil, project.CustomerID); err == nil && customer.AccountID != nil {
		recipients = append(recipients, *customer.AccountID)
	}
	ls.bus.Publish(ctx, events.Event{
		Kind:         events.KindLogCreated,
		ActorID:      rd.UserID,
		ProjectID:    project.ID,
		SubjectID:    entry.ID,
		Title:        fmt.Sprintf("New %s work logged on %q", entry.WorkType, project.Name),
		Detail:       fmt.Sprintf("Work dated %s was recorded on project %q.", entry.Date.Format("2006-01-02"), project.Name),
		RecipientIDs: recipients,
	})
	return entry, nil
}

func (ls *seoLogService) UpdateLog(ctx context.Context, id uuid.UUID, input SEOLogInput) (*types.SEOLog, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := ls.logRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "work log %s not found", id)
	}
	if rd.Role != types.RoleAdmin && entry.CreatedByID != rd.UserID {
		return nil, apierr.PermissionDenied("only the author or an administrator can edit a work log")
	}
	if input.WorkType != "" {
		if !types.ValidWorkType(input.WorkType) {
			return nil, apierr.Validation("invalid work type %q", input.WorkType)
		}
		entry.WorkType = input.WorkType
	}
	if strings.TrimSpace(input.Description) != "" {
		entry.Description = sanitize.HTML(input.Description)
	}
	if !input.WorkDate.IsZero() {
		entry.Date = input.WorkDate
	}
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ls.logRepo.Update(ctx, tx, entry); err != nil {
			return fmt.Errorf("Failed to update work log: %w", err)
		}
		if input.ProviderIDs != nil {
			providers, err := ls.userRepo.GetByIDs(ctx, tx, input.ProviderIDs)
			if err != nil {
				return fmt.Errorf("Failed to load providers: %w", err)
			}
			if len(providers) != len(input.ProviderIDs) {
				return apierr.NotFound("one or more providers not found")
			}
			if err := ls.logRepo.ReplaceProviders(ctx, tx, entry, providers); err != nil {
				return fmt.Errorf("Failed to attach providers: %w", err)
			}
			entry.Providers = providers
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// canViewLog applies project visibility first, then the provider
// narrowing policy when it is set to "own".
func (ls *seoLogService) canViewLog(ctx context.Context, rd *requestdata.RequestData, entry *types.SEOLog) (bool, error) {
	project, err := ls.projectRepo.GetByID(ctx, nil, entry.ProjectID)
	if err != nil {
		return false, notFoundOr(err, "project %s not found", entry.ProjectID)
	}
	ok, err := canViewProject(ctx, nil, ls.projectRepo, ls.customerRepo, rd, project)
	if err != nil || !ok {
		return false, err
	}
	if rd.Role == types.RoleProvider && ls.visibility == LogVisibilityOwn && entry.CreatedByID != rd.UserID {
		return false, nil
	}
	return true, nil
}

func (ls *seoLogService) GetLog(ctx context.Context, id uuid.UUID) (*types.SEOLog, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := ls.logRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "work log %s not found", id)
	}
	ok, err := ls.canViewLog(ctx, rd, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.PermissionDenied("you don't have permission to access this work log")
	}
	files, err := ls.fileRepo.ListByOwner(ctx, nil, types.FileOwnerSEOLog, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load attachments: %w", err)
	}
	entry.Files = files
	return entry, nil
}

func (ls *seoLogService) ListLogs(ctx context.Context, filter repos.SEOLogFilter) ([]*types.SEOLog, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	switch rd.Role {
	case types.RoleAdmin:
		// unrestricted
	case types.RoleProvider:
		if ls.visibility == LogVisibilityOwn {
			filter.CreatedByID = &rd.UserID
		} else {
			filter.ProviderID = &rd.UserID
		}
	case types.RoleCustomer:
		customer, err := ls.customerRepo.GetByAccountID(ctx, nil, rd.UserID)
		if err != nil {
			return []*types.SEOLog{}, nil
		}
		projects, err := ls.projectRepo.ListByCustomerID(ctx, nil, customer.ID, repos.ProjectFilter{})
		if err != nil {
			return nil, fmt.Errorf("Failed to load customer projects: %w", err)
		}
		if filter.ProjectID == nil {
			if len(projects) == 0 {
				return []*types.SEOLog{}, nil
			}
		} else {
			found := false
			for _, p := range projects {
				if p.ID == *filter.ProjectID {
					found = true
					break
				}
			}
			if !found {
				return []*types.SEOLog{}, nil
			}
		}
		if filter.ProjectID == nil && len(projects) == 1 {
			filter.ProjectID = &projects[0].ID
		}
		if filter.ProjectID == nil {
			out := []*types.SEOLog{}
			for _, p := range projects {
				logs, err := ls.logRepo.ListByProjectID(ctx, nil, p.ID)
				if err != nil {
					return nil, fmt.Errorf("Failed to list work logs: %w", err)
				}
				out = append(out, logs...)
			}
			return out, nil
		}
	default:
		return nil, apierr.PermissionDenied("unknown role %q", rd.Role)
	}
	return ls.logRepo.List(ctx, nil, filter)
}

func (ls *seoLogService) DeleteLog(ctx context.Context, id uuid.UUID) error {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	entry, err := ls.logRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "work log %s not found", id)
	}
	if rd.Role != types.RoleAdmin && entry.CreatedByID != rd.UserID {
		return apierr.PermissionDenied("only the author or an administrator can delete a work log")
	}
	files, err := ls.fileRepo.ListByOwner(ctx, nil, types.FileOwnerSEOLog, entry.ID)
	if err != nil {
		return fmt.Errorf("Failed to load attachments: %w", err)
	}
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ls.fileRepo.SoftDeleteByOwner(ctx, tx, types.FileOwnerSEOLog, entry.ID); err != nil {
			return fmt.Errorf("Failed to delete attachments: %w", err)
		}
		if err := ls.logRepo.SoftDeleteByID(ctx, tx, entry.ID); err != nil {
			return fmt.Errorf("Failed to delete work log: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Physical deletion is best effort: the database rows are already
	// gone, a stranded blob only wastes space.
	for _, f := range files {
		if err := ls.store.Delete(ctx, f.StorageKey); err != nil {
			ls.log.Warn("Failed to delete stored object", "key", f.StorageKey, "error", err)
		}
	}
	return nil
}
