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
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/sanitize"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type SectionInput struct {
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  int       `json:"priority"`
}

type SectionService interface {
	CreateSection(ctx context.Context, input SectionInput) (*types.ReportSection, error)
	UpdateSection(ctx context.Context, id uuid.UUID, input SectionInput) (*types.ReportSection, error)
	GetSection(ctx context.Context, id uuid.UUID) (*types.ReportSection, error)
	ListSections(ctx context.Context, projectID uuid.UUID) ([]*types.ReportSection, error)
	AttachLogs(ctx context.Context, sectionID uuid.UUID, logIDs []uuid.UUID) (*types.ReportSection, error)
	AttachFiles(ctx context.Context, sectionID uuid.UUID, fileIDs []uuid.UUID) (*types.ReportSection, error)
}

type sectionService struct {
	db           *gorm.DB
	log          *logger.Logger
	sectionRepo  repos.SectionRepo
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	logRepo      repos.SEOLogRepo
	fileRepo     repos.StoredFileRepo
}

func NewSectionService(
	db *gorm.DB,
	log *logger.Logger,
	sectionRepo repos.SectionRepo,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	logRepo repos.SEOLogRepo,
	fileRepo repos.StoredFileRepo,
) SectionService {
	serviceLog := log.With("service", "SectionService")
	return &sectionService{
		db:           db,
		log:          serviceLog,
		sectionRepo:  sectionRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		logRepo:      logRepo,
		fileRepo:     fileRepo,
	}
}

func (ss *sectionService) canWriteSections(ctx context.Context, rd *requestdata.RequestData, projectID uuid.UUID) error {
	switch rd.Role {
	case types.RoleAdmin:
		return nil
	case types.RoleProvider:
		assigned, err := ss.projectRepo.IsProviderAssigned(ctx, nil, projectID, rd.UserID)
		if err != nil {
			return fmt.Errorf("Failed to check project assignment: %w", err)
		}
		if !assigned {
			return apierr.PermissionDenied("you are not assigned to this project")
		}
		return nil
	default:
		return apierr.PermissionDenied("customers cannot edit report sections")
	}
}

func validateSectionInput(input SectionInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apierr.Validation("section title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return apierr.Validation("section content is required")
	}
	if input.Priority < 0 {
		return apierr.Validation("priority must be a positive integer")
	}
	return nil
}

func (ss *sectionService) CreateSection(ctx context.Context, input SectionInput) (*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSectionInput(input); err != nil {
		return nil, err
	}
	if _, err := ss.projectRepo.GetByID(ctx, nil, input.ProjectID); err != nil {
		return nil, notFoundOr(err, "project %s not found", input.ProjectID)
	}
	if err := ss.canWriteSections(ctx, rd, input.ProjectID); err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == 0 {
		priority = 1
	}
	section := &types.ReportSection{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		Title:       strings.TrimSpace(input.Title),
		Content:     sanitize.HTML(input.Content),
		Priority:    priority,
		CreatedByID: rd.UserID,
	}
	if _, err := ss.sectionRepo.Create(ctx, nil, []*types.ReportSection{section}); err != nil {
		return nil, fmt.Errorf("Failed to create section: %w", err)
	}
	return section, nil
}

func (ss *sectionService) UpdateSection(ctx context.Context, id uuid.UUID, input SectionInput) (*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	section, err := ss.sectionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "section %s not found", id)
	}
	if err := ss.canWriteSections(ctx, rd, section.ProjectID); err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		section.Title = title
	}
	if strings.TrimSpace(input.Content) != "" {
		section.Content = sanitize.HTML(input.Content)
	}
	if input.Priority > 0 {
		section.Priority = input.Priority
	} else if input.Priority < 0 {
		return nil, apierr.Validation("priority must be a positive integer")
	}
	if err := ss.sectionRepo.Update(ctx, nil, section); err != nil {
		return nil, fmt.Errorf("Failed to update section: %w", err)
	}
	return section, nil
}

func (ss *sectionService) GetSection(ctx context.Context, id uuid.UUID) (*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	section, err := ss.sectionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "section %s not found", id)
	}
	project, err := ss.projectRepo.GetByID(ctx, nil, section.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", section.ProjectID)
	}
	ok, err := canViewProject(ctx, nil, ss.projectRepo, ss.customerRepo, rd, project)
	if err != nil {
		return nil, fmt.Errorf("Failed to evaluate project visibility: %w", err)
	}
	if !ok {
		return nil, apierr.PermissionDenied("you don't have permission to access this section")
	}
	return section, nil
}

func (ss *sectionService) ListSections(ctx context.Context, projectID uuid.UUID) ([]*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	project, err := ss.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", projectID)
	}
	ok, err := canViewProject(ctx, nil, ss.projectRepo, ss.customerRepo, rd, project)
	if err != nil {
		return nil, fmt.Errorf("Failed to evaluate project visibility: %w", err)
	}
	if !ok {
		return nil, apierr.PermissionDenied("you don't have permission to access this project")
	}
	return ss.sectionRepo.ListByProjectID(ctx, nil, projectID)
}

func (ss *sectionService) AttachLogs(ctx context.Context, sectionID uuid.UUID, logIDs []uuid.UUID) (*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	section, err := ss.sectionRepo.GetByID(ctx, nil, sectionID)
	if err != nil {
		return nil, notFoundOr(err, "section %s not found", sectionID)
	}
	if err := ss.canWriteSections(ctx, rd, section.ProjectID); err != nil {
		return nil, err
	}
	logs, err := ss.logRepo.ListByIDs(ctx, nil, logIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to load work logs: %w", err)
	}
	if len(logs) != len(logIDs) {
		return nil, apierr.NotFound("one or more work logs not found")
	}
	for _, l := range logs {
		if l.ProjectID != section.ProjectID {
			return nil, apierr.Validation("work log %s belongs to a different project", l.ID)
		}
	}
	if err := ss.sectionRepo.ReplaceLogs(ctx, nil, section, logs); err != nil {
		return nil, fmt.Errorf("Failed to attach work logs: %w", err)
	}
	section.Logs = logs
	return section, nil
}

func (ss *sectionService) AttachFiles(ctx context.Context, sectionID uuid.UUID, fileIDs []uuid.UUID) (*types.ReportSection, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	section, err := ss.sectionRepo.GetByID(ctx, nil, sectionID)
	if err != nil {
		return nil, notFoundOr(err, "section %s not found", sectionID)
	}
	if err := ss.canWriteSections(ctx, rd, section.ProjectID); err != nil {
		return nil, err
	}
	files, err := ss.fileRepo.GetByIDs(ctx, nil, fileIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to load files: %w", err)
	}
	if len(files) != len(fileIDs) {
		return nil, apierr.NotFound("one or more files not found")
	}
	for _, f := range files {
		switch f.OwnerKind {
		case types.FileOwnerSEOLog:
			entry, err := ss.logRepo.GetByID(ctx, nil, f.OwnerID)
			if err != nil {
				return nil, notFoundOr(err, "work log %s not found", f.OwnerID)
			}
			if entry.ProjectID != section.ProjectID {
				return nil, apierr.Validation("file %s belongs to a different project", f.ID)
			}
		case types.FileOwnerReportSection:
			owner, err := ss.sectionRepo.GetByID(ctx, nil, f.OwnerID)
			if err != nil {
				return nil, notFoundOr(err, "section %s not found", f.OwnerID)
			}
			if owner.ProjectID != section.ProjectID {
				return nil, apierr.Validation("file %s belongs to a different project", f.ID)
			}
		default:
			return nil, apierr.Validation("file %s cannot be attached to a section", f.ID)
		}
	}
	if err := ss.sectionRepo.ReplaceFiles(ctx, nil, section, files); err != nil {
		return nil, fmt.Errorf("Failed to attach files: %w", err)
	}
	section.Files = files
	return section, nil
}
