package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/pdf"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/storage"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// reportTemplate lays the document out one ordered section after another.
// Page breaks are driven entirely by the per-placement flag.
const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 2.5em; }
h1 { font-size: 1.8em; margin-bottom: 0.2em; }
h2 { font-size: 1.3em; border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
.meta { color: #666; font-size: 0.85em; margin-bottom: 2em; }
.section { margin-bottom: 2em; }
.page-break { page-break-before: always; }
img.logo { max-height: 64px; margin-bottom: 1em; }
</style>
</head>
<body>
{{- if .LogoURL }}
<img class="logo" src="{{ .LogoURL }}" alt="logo">
{{- end }}
<h1>{{ .Title }}</h1>
<div class="meta">
{{- if .Description }}<p>{{ .Description }}</p>{{ end }}
<p>Project: {{ .ProjectName }} &middot; Customer: {{ .CustomerName }}</p>
<p>Version {{ .Version }} &middot; Generated {{ .GeneratedAt }} by {{ .GeneratedBy }}</p>
</div>
{{- range .Sections }}
<div class="section{{ if .PageBreak }} page-break{{ end }}">
<h2>{{ .Title }}</h2>
{{ .Content }}
</div>
{{- end }}
</body>
</html>
`

type renderSection struct {
	Title     string
	Content   template.HTML
	PageBreak bool
}

type renderData struct {
	Title        string
	Description  string
	ProjectName  string
	CustomerName string
	Version      int
	GeneratedAt  string
	GeneratedBy  string
	LogoURL      string
	Sections     []renderSection
}

type RenderedReport struct {
	PDF      []byte
	HTML     string
	FileName string
}

type RenderService interface {
	RenderPDF(ctx context.Context, reportID uuid.UUID) (*RenderedReport, error)

	// SnapshotVersion renders the report and pins the PDF to its current
	// version row.
	SnapshotVersion(ctx context.Context, reportID uuid.UUID) (*types.ReportVersion, error)
}

type renderService struct {
	db           *gorm.DB
	log          *logger.Logger
	reportRepo   repos.ReportRepo
	orderRepo    repos.SectionOrderRepo
	versionRepo  repos.ReportVersionRepo
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	userRepo     repos.UserRepo
	settingsRepo repos.UserSettingsRepo
	renderer     pdf.Renderer
	store        storage.Store
	tmpl         *template.Template

	// now is swappable so rendered output is reproducible under test.
	now func() time.Time
}

func NewRenderService(
	db *gorm.DB,
	log *logger.Logger,
	reportRepo repos.ReportRepo,
	orderRepo repos.SectionOrderRepo,
	versionRepo repos.ReportVersionRepo,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	userRepo repos.UserRepo,
	settingsRepo repos.UserSettingsRepo,
	renderer pdf.Renderer,
	store storage.Store,
) RenderService {
	serviceLog := log.With("service", "RenderService")
	return &renderService{
		db:           db,
		log:          serviceLog,
		reportRepo:   reportRepo,
		orderRepo:    orderRepo,
		versionRepo:  versionRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		store:        store,
		tmpl:         template.Must(template.New("report").Parse(reportTemplate)),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (rs *renderService) buildHTML(ctx context.Context, rd *requestdata.RequestData, report *types.Report) (string, error) {
	project, err := rs.projectRepo.GetByID(ctx, nil, report.ProjectID)
	if err != nil {
		return "", notFoundOr(err, "project %s not found", report.ProjectID)
	}
	customer, err := rs.customerRepo.GetByID(ctx, nil, project.CustomerID)
	if err != nil {
		return "", notFoundOr(err, "customer %s not found", project.CustomerID)
	}
	orders, err := rs.orderRepo.ListByReportID(ctx, nil, report.ID)
	if err != nil {
		return "", fmt.Errorf("Failed to load section layout: %w", err)
	}
	if len(orders) == 0 {
		return "", apierr.Validation("report has no sections to render")
	}

	generatedBy := rd.Email
	if user, err := rs.userRepo.GetByID(ctx, nil, rd.UserID); err == nil {
		generatedBy = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	}
	logoURL := ""
	if customer.LogoKey != "" {
		logoURL = rs.store.PublicURL(customer.LogoKey)
	} else if settings, err := rs.settingsRepo.GetByUserID(ctx, nil, rd.UserID); err == nil && settings.ReportLogoKey != "" {
		logoURL = rs.store.PublicURL(settings.ReportLogoKey)
	}

	data := renderData{
		Title:        report.Title,
		Description:  report.Description,
		ProjectName:  project.Name,
		CustomerName: customer.Name,
		Version:      report.Version,
		GeneratedAt:  rs.now().Format("2006-01-02 15:04 MST"),
		GeneratedBy:  generatedBy,
		LogoURL:      logoURL,
	}
	for _, o := range orders {
		if o.Section == nil {
			return "", fmt.Errorf("section %s missing from layout row", o.SectionID)
		}
		data.Sections = append(data.Sections, renderSection{
			Title: o.Section.Title,
			// Section content is sanitized on write, safe to embed.
			Content:   template.HTML(o.Section.Content),
			PageBreak: o.Position > 1 && o.PageBreakBefore,
		})
	}

	var buf bytes.Buffer
	if err := rs.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("Failed to build report HTML: %w", err)
	}
	return buf.String(), nil
}

func (rs *renderService) loadRenderable(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error) {
	report, err := rs.reportRepo.GetByID(ctx, nil, reportID)
	if err != nil {
		return nil, notFoundOr(err, "report %s not found", reportID)
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
	if rd.Role == types.RoleCustomer && report.Status != types.ReportStatusPublished {
		return nil, apierr.NotFound("report %s not found", reportID)
	}
	return report, nil
}

func (rs *renderService) RenderPDF(ctx context.Context, reportID uuid.UUID) (*RenderedReport, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := rs.loadRenderable(ctx, rd, reportID)
	if err != nil {
		return nil, err
	}
	html, err := rs.buildHTML(ctx, rd, report)
	if err != nil {
		return nil, err
	}
	// Relative asset references in section content resolve against the
	// storage root.
	pdfBytes, err := rs.renderer.Render(ctx, html, rs.store.PublicURL(""))
	if err != nil {
		return nil, apierr.Storage("report rendering failed: %v", err)
	}
	return &RenderedReport{
		PDF:      pdfBytes,
		HTML:     html,
		FileName: fmt.Sprintf("%s-v%d.pdf", report.ID, report.Version),
	}, nil
}

func (rs *renderService) SnapshotVersion(ctx context.Context, reportID uuid.UUID) (*types.ReportVersion, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role == types.RoleCustomer {
		return nil, apierr.PermissionDenied("customers cannot snapshot reports")
	}
	report, err := rs.loadRenderable(ctx, rd, reportID)
	if err != nil {
		return nil, err
	}
	rendered, err := rs.RenderPDF(ctx, reportID)
	if err != nil {
		return nil, err
	}
	versions, err := rs.versionRepo.ListByReportID(ctx, nil, report.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load versions: %w", err)
	}
	var current *types.ReportVersion
	for _, v := range versions {
		if v.VersionNumber == report.Version {
			current = v
			break
		}
	}
	if current == nil {
		return nil, apierr.NotFound("version %d of report %s not found", report.Version, report.ID)
	}
	key := fmt.Sprintf("report_pdf/%s/%s.pdf", report.ID, uuid.New())
	if err := rs.store.Put(ctx, key, bytes.NewReader(rendered.PDF)); err != nil {
		return nil, apierr.Storage("failed to store PDF snapshot: %v", err)
	}
	current.PDFSnapshotKey = key
	if err := rs.db.WithContext(ctx).Model(&types.ReportVersion{}).
		Where("id = ?", current.ID).
		Update("pdf_snapshot_key", key).Error; err != nil {
		return nil, fmt.Errorf("Failed to pin PDF snapshot: %w", err)
	}
	return current, nil
}
