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
	"github.com/yungbote/seoportal-backend/internal/types"
)

type ProjectInput struct {
	CustomerID  uuid.UUID  `json:"customer_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type ProjectService interface {
	CreateProject(ctx context.Context, input ProjectInput) (*types.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, input ProjectInput) (*types.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
	ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, error)
	AssignProviders(ctx context.Context, projectID uuid.UUID, providerIDs []uuid.UUID) (*types.Project, error)

	// VisibleProjectIDs is the shared scoping primitive reports and
	// dashboards lean on.
	VisibleProjectIDs(ctx context.Context) ([]uuid.UUID, error)
}

type projectService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	userRepo     repos.UserRepo
	bus          *events.Bus
}

func NewProjectService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	userRepo repos.UserRepo,
	bus *events.Bus,
) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{
		db:           db,
		log:          serviceLog,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		bus:          bus,
	}
}

func validateProjectDates(start time.Time, end *time.Time) error {
	if start.IsZero() {
		return apierr.Validation("start date is required")
	}
	if end != nil && end.Before(start) {
		return apierr.Validation("end date cannot precede start date")
	}
	return nil
}

func (ps *projectService) CreateProject(ctx context.Context, input ProjectInput) (*types.Project, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can create projects")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validation("project name is required")
	}
	if err := validateProjectDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if _, err := ps.customerRepo.GetByID(ctx, nil, input.CustomerID); err != nil {
		return nil, notFoundOr(err, "customer %s not found", input.CustomerID)
	}
	project := &types.Project{
		ID:          uuid.New(),
		CustomerID:  input.CustomerID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
	}
	if _, err := ps.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, fmt.Errorf("Failed to create project: %w", err)
	}
	return project, nil
}

func (ps *projectService) UpdateProject(ctx context.Context, id uuid.UUID, input ProjectInput) (*types.Project, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can edit projects")
	}
	project, err := ps.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", id)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		project.Name = name
	}
	if input.Description != "" {
		project.Description = strings.TrimSpace(input.Description)
	}
	start := project.StartDate
	if !input.StartDate.IsZero() {
		start = input.StartDate
	}
	end := project.EndDate
	if input.EndDate != nil {
		end = input.EndDate
	}
	if err := validateProjectDates(start, end); err != nil {
		return nil, err
	}
	project.StartDate = start
	project.EndDate = end
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}
	if err := ps.projectRepo.Update(ctx, nil, project); err != nil {
		return nil, fmt.Errorf("Failed to update project: %w", err)
	}
	return project, nil
}

func (ps *projectService) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	project, err := ps.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", id)
	}
	ok, err := canViewProject(ctx, nil, ps.projectRepo, ps.customerRepo, rd, project)
	if err != nil {
		return nil, fmt.Errorf("Failed to evaluate project visibility: %w", err)
	}
	if !ok {
		return nil, apierr.PermissionDenied("you don't have permission to access this project")
	}
	return project, nil
}

func (ps *projectService) ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	switch rd.Role {
	case types.RoleAdmin:
		return ps.projectRepo.List(ctx, nil, filter)
	case types.RoleProvider:
		return ps.projectRepo.ListByProviderID(ctx, nil, rd.UserID, filter)
	case types.RoleCustomer:
		customer, err := ps.customerRepo.GetByAccountID(ctx, nil, rd.UserID)
		if err != nil {
			return []*types.Project{}, nil
		}
		return ps.projectRepo.ListByCustomerID(ctx, nil, customer.ID, filter)
	default:
		return nil, apierr.PermissionDenied("unknown role %q", rd.Role)
	}
}

func (ps *projectService) AssignProviders(ctx context.Context, projectID uuid.UUID, providerIDs []uuid.UUID) (*types.Project, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can assign providers")
	}
	project, err := ps.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", projectID)
	}
	providers, err := ps.userRepo.GetByIDs(ctx, nil, providerIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to load providers: %w", err)
	}
	if len(providers) != len(providerIDs) {
		return nil, apierr.NotFound("one or more providers not found")
	}
	for _, p := range providers {
		if p.Role != types.RoleProvider {
			return nil, apierr.Validation("user %s is not a provider", p.ID)
		}
	}
	if err := ps.projectRepo.ReplaceProviders(ctx, nil, project, providers); err != nil {
		return nil, fmt.Errorf("Failed to assign providers: %w", err)
	}
	project.Providers = providers

	recipients := make([]uuid.UUID, 0, len(providers))
	for _, p := range providers {
		recipients = append(recipients, p.ID)
	}
	ps.bus.Publish(ctx, events.Event{
		Kind:         events.KindProjectAssigned,
		ActorID:      rd.UserID,
		ProjectID:    project.ID,
		Title:        fmt.Sprintf("You were assigned to project %q", project.Name),
		Detail:       fmt.Sprintf("Project %q now lists you as a provider.", project.Name),
		RecipientIDs: recipients,
	})
	return project, nil
}

func (ps *projectService) VisibleProjectIDs(ctx context.Context) ([]uuid.UUID, error) {
	projects, err := ps.ListProjects(ctx, repos.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
