package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type ReportSectionPlacement struct {
	SectionID       uuid.UUID `json:"section_id"`
	PageBreakBefore *bool     `json:"page_break_before,omitempty"`
}

type ReportCreateInput struct {
	ProjectID   uuid.UUID                `json:"project_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Sections    []ReportSectionPlacement `json:"sections"`

	// OrderByPriority sorts the initial layout by section priority instead
	// of the order the sections were listed in.
	OrderByPriority bool `json:"order_by_priority,omitempty"`
}

type ReportEditInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Changes     string  `json:"changes,omitempty"`
}

type ReviewInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

type ReportService interface {
	CreateReport(ctx context.Context, input ReportCreateInput) (*types.Report, error)
	EditReport(ctx context.Context, id uuid.UUID, input ReportEditInput) (*types.Report, error)
	SubmitForReview(ctx context.Context, id uuid.UUID) (*types.Report, error)
	Review(ctx context.Context, id uuid.UUID, input ReviewInput) (*types.Report, error)
	Publish(ctx context.Context, id uuid.UUID) (*types.Report, error)
	Archive(ctx context.Context, id uuid.UUID) (*types.Report, error)
	AddSection(ctx context.Context, reportID uuid.UUID, placement ReportSectionPlacement) (*types.Report, error)
	ReorderSections(ctx context.Context, reportID uuid.UUID, placements []ReportSectionPlacement) (*types.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error)
	ListReports(ctx context.Context) ([]*types.Report, error)
	ListVersions(ctx context.Context, reportID uuid.UUID) ([]*types.ReportVersion, error)
	CanEdit(ctx context.Context, report *types.Report) bool
}

type reportService struct {
	db           *gorm.DB
	log          *logger.Logger
	reportRepo   repos.ReportRepo
	orderRepo    repos.SectionOrderRepo
	versionRepo  repos.ReportVersionRepo
	sectionRepo  repos.SectionRepo
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	bus          *events.Bus
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	reportRepo repos.ReportRepo,
	orderRepo repos.SectionOrderRepo,
	versionRepo repos.ReportVersionRepo,
	sectionRepo repos.SectionRepo,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	bus *events.Bus,
) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		db:           db,
		log:          serviceLog,
		reportRepo:   reportRepo,
		orderRepo:    orderRepo,
		versionRepo:  versionRepo,
		sectionRepo:  sectionRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		bus:          bus,
	}
}

// CanEdit: admins always, the creating provider only while the report is
// still a draft.
func (rs *reportService) CanEdit(ctx context.Context, report *types.Report) bool {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return false
	}
	if rd.Role == types.RoleAdmin {
		return true
	}
	return report.CreatedByID == rd.UserID && report.Status == types.ReportStatusDraft
}

func (rs *reportService) loadForActor(ctx context.Context, rd *requestdata.RequestData, id uuid.UUID) (*types.Report, error) {
	report, err := rs.reportRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "report %s not found", id)
	}
	project, err := rs.projectRepo.GetByID(ctx, nil, report.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", report.ProjectID)
	}
	ok, err := canViewProject(ctx, nil, rs.projectRepo, rs.customerRepo, rd, project)
	if err != nil {
		return nil, fmt.Errorf("Failed to evaluate project visibility: %w", err)
	}
	if !ok {
		return nil, apierr.PermissionDenied("you don't have permission to access this report")
	}
	return report, nil
}

// versionLayoutEntry is one row of the layout snapshot stored on a version.
type versionLayoutEntry struct {
	SectionID       uuid.UUID `json:"section_id"`
	Position        int       `json:"position"`
	PageBreakBefore bool      `json:"page_break_before"`
}

// newVersion appends the next version row and mirrors the number onto the
// report. Must run inside the caller's transaction, after the layout is in
// its final state; MaxVersionNumber counts soft-deleted rows so numbers are
// never reused.
func (rs *reportService) newVersion(ctx context.Context, tx *gorm.DB, report *types.Report, actorID uuid.UUID, changes string) error {
	max, err := rs.versionRepo.MaxVersionNumber(ctx, tx, report.ID)
	if err != nil {
		return fmt.Errorf("Failed to resolve version number: %w", err)
	}
	orders, err := rs.orderRepo.ListByReportID(ctx, tx, report.ID)
	if err != nil {
		return fmt.Errorf("Failed to snapshot section layout: %w", err)
	}
	entries := make([]versionLayoutEntry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, versionLayoutEntry{
			SectionID:       o.SectionID,
			Position:        o.Position,
			PageBreakBefore: o.PageBreakBefore,
		})
	}
	layout, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("Failed to encode layout snapshot: %w", err)
	}
	version := &types.ReportVersion{
		ID:            uuid.New(),
		ReportID:      report.ID,
		VersionNumber: max + 1,
		CreatedByID:   actorID,
		Changes:       changes,
		Layout:        datatypes.JSON(layout),
	}
	if _, err := rs.versionRepo.Create(ctx, tx, []*types.ReportVersion{version}); err != nil {
		return fmt.Errorf("Failed to create report version: %w", err)
	}
	report.Version = version.VersionNumber
	return nil
}

func (rs *reportService) CreateReport(ctx context.Context, input ReportCreateInput) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role == types.RoleCustomer {
		return nil, apierr.PermissionDenied("customers cannot create reports")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("report title is required")
	}
	if len(input.Sections) == 0 {
		return nil, apierr.Validation("a report needs at least one section")
	}
	project, err := rs.projectRepo.GetByID(ctx, nil, input.ProjectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", input.ProjectID)
	}
	if rd.Role == types.RoleProvider {
		assigned, err := rs.projectRepo.IsProviderAssigned(ctx, nil, project.ID, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("Failed to check project assignment: %w", err)
		}
		if !assigned {
			return nil, apierr.PermissionDenied("you are not assigned to this project")
		}
	}

	sectionIDs := make([]uuid.UUID, 0, len(input.Sections))
	seen := map[uuid.UUID]bool{}
	for _, p := range input.Sections {
		if seen[p.SectionID] {
			return nil, apierr.Validation("section %s listed more than once", p.SectionID)
		}
		seen[p.SectionID] = true
		sectionIDs = append(sectionIDs, p.SectionID)
	}
	sections, err := rs.sectionRepo.GetByIDs(ctx, nil, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to load sections: %w", err)
	}
	if len(sections) != len(sectionIDs) {
		return nil, apierr.NotFound("one or more sections not found")
	}
	byID := map[uuid.UUID]*types.ReportSection{}
	for _, s := range sections {
		if s.ProjectID != project.ID {
			return nil, apierr.Validation("section %s belongs to a different project", s.ID)
		}
		byID[s.ID] = s
	}

	placements := append([]ReportSectionPlacement(nil), input.Sections...)
	if input.OrderByPriority {
		sort.SliceStable(placements, func(i, j int) bool {
			return byID[placements[i].SectionID].Priority < byID[placements[j].SectionID].Priority
		})
	}

	report := &types.Report{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      types.ReportStatusDraft,
		CreatedByID: rd.UserID,
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.reportRepo.Create(ctx, tx, []*types.Report{report}); err != nil {
			return fmt.Errorf("Failed to create report: %w", err)
		}
		orders := make([]*types.ReportSectionOrder, 0, len(placements))
		for i, p := range placements {
			pageBreak := true
			if p.PageBreakBefore != nil {
				pageBreak = *p.PageBreakBefore
			}
			orders = append(orders, &types.ReportSectionOrder{
				ID:              uuid.New(),
				ReportID:        report.ID,
				SectionID:       p.SectionID,
				Position:        i + 1,
				PageBreakBefore: pageBreak,
			})
		}
		if _, err := rs.orderRepo.Create(ctx, tx, orders); err != nil {
			return fmt.Errorf("Failed to create section layout: %w", err)
		}
		if err := rs.newVersion(ctx, tx, report, rd.UserID, "Initial version"); err != nil {
			return err
		}
		return rs.reportRepo.Update(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) EditReport(ctx context.Context, id uuid.UUID, input ReportEditInput) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	if !rs.CanEdit(ctx, report) {
		return nil, apierr.PermissionDenied("you don't have permission to edit this report")
	}
	if input.Status != nil {
		if !types.ValidReportStatus(*input.Status) {
			return nil, apierr.Validation("invalid report status %q", *input.Status)
		}
		// Status never moves through an edit. Submit, review, publish and
		// archive are the only transitions, so a draft can't be pushed
		// straight to published by its creator.
		if *input.Status != report.Status {
			return nil, apierr.Validation("report status changes only through submit, review, publish or archive")
		}
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Title != nil {
			if strings.TrimSpace(*input.Title) == "" {
				return apierr.Validation("report title is required")
			}
			report.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			report.Description = strings.TrimSpace(*input.Description)
		}
		changes := input.Changes
		if changes == "" {
			changes = "Edited report details"
		}
		if err := rs.newVersion(ctx, tx, report, rd.UserID, changes); err != nil {
			return err
		}
		return rs.reportRepo.Update(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) SubmitForReview(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	if rd.Role == types.RoleCustomer {
		return nil, apierr.PermissionDenied("customers cannot submit reports")
	}
	if rd.Role == types.RoleProvider && report.CreatedByID != rd.UserID {
		return nil, apierr.PermissionDenied("only the report's creator can submit it for review")
	}
	// Re-read inside the transaction so a concurrent transition can't slip
	// between the status check and the write.
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := rs.reportRepo.GetByID(ctx, tx, report.ID)
		if err != nil {
			return notFoundOr(err, "report %s not found", report.ID)
		}
		if current.Status != types.ReportStatusDraft {
			return apierr.Validation("only draft reports can be submitted for review")
		}
		if err := rs.reportRepo.UpdateFields(ctx, tx, report.ID, map[string]interface{}{
			"status": types.ReportStatusInReview,
		}); err != nil {
			return fmt.Errorf("Failed to submit report: %w", err)
		}
		report.Status = types.ReportStatusInReview
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) Review(ctx context.Context, id uuid.UUID, input ReviewInput) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can review reports")
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	status := types.ReportStatusDraft
	if input.Approve {
		status = types.ReportStatusApproved
	}
	notes := strings.TrimSpace(input.Notes)
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := rs.reportRepo.GetByID(ctx, tx, report.ID)
		if err != nil {
			return notFoundOr(err, "report %s not found", report.ID)
		}
		if current.Status != types.ReportStatusInReview {
			return apierr.Validation("only reports in review can be reviewed")
		}
		if err := rs.reportRepo.UpdateFields(ctx, tx, report.ID, map[string]interface{}{
			"status":              status,
			"last_reviewed_by_id": rd.UserID,
			"last_reviewed_at":    now,
			"review_notes":        notes,
		}); err != nil {
			return fmt.Errorf("Failed to record review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Status = status
	report.LastReviewedByID = &rd.UserID
	report.LastReviewedAt = &now
	report.ReviewNotes = notes
	return report, nil
}

func (rs *reportService) Publish(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can publish reports")
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	transitioned := false
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := rs.reportRepo.GetByID(ctx, tx, report.ID)
		if err != nil {
			return notFoundOr(err, "report %s not found", report.ID)
		}
		// Publishing a published report is a no-op, not an error; the
		// original publish date stands.
		if current.Status == types.ReportStatusPublished {
			report.Status = current.Status
			report.PublishDate = current.PublishDate
			return nil
		}
		if current.Status != types.ReportStatusApproved {
			return apierr.Validation("only approved reports can be published")
		}
		if err := rs.reportRepo.UpdateFields(ctx, tx, report.ID, map[string]interface{}{
			"status":       types.ReportStatusPublished,
			"publish_date": now,
		}); err != nil {
			return fmt.Errorf("Failed to publish report: %w", err)
		}
		report.Status = types.ReportStatusPublished
		report.PublishDate = &now
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return report, nil
	}

	recipients := []uuid.UUID{}
	if project, err := rs.projectRepo.GetByID(ctx, nil, report.ProjectID); err == nil {
		if customer, err := rs.customerRepo.GetByID(ctx, nil, project.CustomerID); err == nil && customer.AccountID != nil {
			recipients = append(recipients, *customer.AccountID)
		}
	}
	rs.bus.Publish(ctx, events.Event{
		Kind:         events.KindReportPublished,
		ActorID:      rd.UserID,
		ProjectID:    report.ProjectID,
		SubjectID:    report.ID,
		Title:        fmt.Sprintf("Report %q was published", report.Title),
		Detail:       fmt.Sprintf("Version %d of %q is now available.", report.Version, report.Title),
		RecipientIDs: recipients,
	})
	return report, nil
}

func (rs *reportService) Archive(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can archive reports")
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := rs.reportRepo.GetByID(ctx, tx, report.ID)
		if err != nil {
			return notFoundOr(err, "report %s not found", report.ID)
		}
		if current.Status == types.ReportStatusArchived {
			report.Status = current.Status
			return nil
		}
		if err := rs.reportRepo.UpdateFields(ctx, tx, report.ID, map[string]interface{}{
			"status": types.ReportStatusArchived,
		}); err != nil {
			return fmt.Errorf("Failed to archive report: %w", err)
		}
		report.Status = types.ReportStatusArchived
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) AddSection(ctx context.Context, reportID uuid.UUID, placement ReportSectionPlacement) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadForActor(ctx, rd, reportID)
	if err != nil {
		return nil, err
	}
	if !rs.CanEdit(ctx, report) {
		return nil, apierr.PermissionDenied("you don't have permission to edit this report")
	}
	section, err := rs.sectionRepo.GetByID(ctx, nil, placement.SectionID)
	if err != nil {
		return nil, notFoundOr(err, "section %s not found", placement.SectionID)
	}
	if section.ProjectID != report.ProjectID {
		return nil, apierr.Validation("section %s belongs to a different project", section.ID)
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Both the duplicate check and the next position are resolved inside
		// the same transaction the row is inserted in; the unique
		// (report, position) index backs this up under concurrency.
		existing, err := rs.orderRepo.ListByReportID(ctx, tx, report.ID)
		if err != nil {
			return fmt.Errorf("Failed to load section layout: %w", err)
		}
		for _, o := range existing {
			if o.SectionID == section.ID {
				return apierr.Validation("section %s is already on this report", section.ID)
			}
		}
		max, err := rs.orderRepo.MaxPosition(ctx, tx, report.ID)
		if err != nil {
			return fmt.Errorf("Failed to resolve section position: %w", err)
		}
		pageBreak := true
		if placement.PageBreakBefore != nil {
			pageBreak = *placement.PageBreakBefore
		}
		order := &types.ReportSectionOrder{
			ID:              uuid.New(),
			ReportID:        report.ID,
			SectionID:       section.ID,
			Position:        max + 1,
			PageBreakBefore: pageBreak,
		}
		if _, err := rs.orderRepo.Create(ctx, tx, []*types.ReportSectionOrder{order}); err != nil {
			return fmt.Errorf("Failed to place section: %w", err)
		}
		if err := rs.newVersion(ctx, tx, report, rd.UserID, fmt.Sprintf("Added section %q", section.Title)); err != nil {
			return err
		}
		return rs.reportRepo.Update(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) ReorderSections(ctx context.Context, reportID uuid.UUID, placements []ReportSectionPlacement) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadForActor(ctx, rd, reportID)
	if err != nil {
		return nil, err
	}
	if !rs.CanEdit(ctx, report) {
		return nil, apierr.PermissionDenied("you don't have permission to edit this report")
	}
	if len(placements) == 0 {
		return nil, apierr.Validation("a report needs at least one section")
	}
	existing, err := rs.orderRepo.ListByReportID(ctx, nil, report.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load section layout: %w", err)
	}
	current := map[uuid.UUID]*types.ReportSectionOrder{}
	for _, o := range existing {
		current[o.SectionID] = o
	}
	if len(placements) != len(existing) {
		return nil, apierr.Validation("reorder must list every section on the report exactly once")
	}
	seen := map[uuid.UUID]bool{}
	for _, p := range placements {
		if seen[p.SectionID] {
			return nil, apierr.Validation("section %s listed more than once", p.SectionID)
		}
		seen[p.SectionID] = true
		if _, ok := current[p.SectionID]; !ok {
			return nil, apierr.Validation("section %s is not on this report", p.SectionID)
		}
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace the whole layout in one transaction so the unique
		// (report, position) index never sees a partial state.
		if err := rs.orderRepo.DeleteByReportID(ctx, tx, report.ID); err != nil {
			return fmt.Errorf("Failed to clear section layout: %w", err)
		}
		orders := make([]*types.ReportSectionOrder, 0, len(placements))
		for i, p := range placements {
			prev := current[p.SectionID]
			pageBreak := prev.PageBreakBefore
			if p.PageBreakBefore != nil {
				pageBreak = *p.PageBreakBefore
			}
			orders = append(orders, &types.ReportSectionOrder{
				ID:              uuid.New(),
				ReportID:        report.ID,
				SectionID:       p.SectionID,
				Position:        i + 1,
				PageBreakBefore: pageBreak,
			})
		}
		if _, err := rs.orderRepo.Create(ctx, tx, orders); err != nil {
			return fmt.Errorf("Failed to rebuild section layout: %w", err)
		}
		if err := rs.newVersion(ctx, tx, report, rd.UserID, "Reordered sections"); err != nil {
			return err
		}
		return rs.reportRepo.Update(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rs *reportService) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadForActor(ctx, rd, id)
	if err != nil {
		return nil, err
	}
	// Customers only see the published output.
	if rd.Role == types.RoleCustomer && report.Status != types.ReportStatusPublished {
		return nil, apierr.NotFound("report %s not found", id)
	}
	orders, err := rs.orderRepo.ListByReportID(ctx, nil, report.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load section layout: %w", err)
	}
	report.SectionOrders = orders
	return report, nil
}

func (rs *reportService) ListReports(ctx context.Context) ([]*types.Report, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var projectIDs []uuid.UUID
	switch rd.Role {
	case types.RoleAdmin:
		projects, err := rs.projectRepo.List(ctx, nil, repos.ProjectFilter{})
		if err != nil {
			return nil, fmt.Errorf("Failed to list projects: %w", err)
		}
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	case types.RoleProvider:
		projects, err := rs.projectRepo.ListByProviderID(ctx, nil, rd.UserID, repos.ProjectFilter{})
		if err != nil {
			return nil, fmt.Errorf("Failed to list projects: %w", err)
		}
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	case types.RoleCustomer:
		customer, err := rs.customerRepo.GetByAccountID(ctx, nil, rd.UserID)
		if err != nil {
			return []*types.Report{}, nil
		}
		projects, err := rs.projectRepo.ListByCustomerID(ctx, nil, customer.ID, repos.ProjectFilter{})
		if err != nil {
			return nil, fmt.Errorf("Failed to list projects: %w", err)
		}
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	default:
		return nil, apierr.PermissionDenied("unknown role %q", rd.Role)
	}
	if len(projectIDs) == 0 {
		return []*types.Report{}, nil
	}
	reports, err := rs.reportRepo.ListByProjectIDs(ctx, nil, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to list reports: %w", err)
	}
	if rd.Role == types.RoleCustomer {
		published := make([]*types.Report, 0, len(reports))
		for _, r := range reports {
			if r.Status == types.ReportStatusPublished {
				published = append(published, r)
			}
		}
		return published, nil
	}
	return reports, nil
}

func (rs *reportService) ListVersions(ctx context.Context, reportID uuid.UUID) ([]*types.ReportVersion, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role == types.RoleCustomer {
		return nil, apierr.PermissionDenied("customers cannot view version history")
	}
	if _, err := rs.loadForActor(ctx, rd, reportID); err != nil {
		return nil, err
	}
	return rs.versionRepo.ListByReportID(ctx, nil, reportID)
}
