package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

const dashboardCacheTTL = 60 * time.Second

// Dashboard is the role-scoped landing page payload. Fields are filled
// according to what the caller is allowed to see; the rest stay zero.
type Dashboard struct {
	Role string `json:"role"`

	CustomerCount      int64  `json:"customer_count,omitempty"`
	ActiveProjectCount int64  `json:"active_project_count,omitempty"`
	ProjectCount       int    `json:"project_count,omitempty"`
	ReportCount        int    `json:"report_count,omitempty"`
	PublishedReports   int    `json:"published_reports,omitempty"`
	ActiveUsers30d     int64  `json:"active_users_30d,omitempty"`
	StorageUsedBytes   int64  `json:"storage_used_bytes,omitempty"`
	StorageUsedHuman   string `json:"storage_used_human,omitempty"`

	RecentLogs []*types.SEOLog  `json:"recent_logs,omitempty"`
	Projects   []*types.Project `json:"projects,omitempty"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	customerRepo repos.CustomerRepo
	projectRepo  repos.ProjectRepo
	logRepo      repos.SEOLogRepo
	reportRepo   repos.ReportRepo
	fileRepo     repos.StoredFileRepo
	cache        *redis.Client
	humanSize    func(int64) string
	now          func() time.Time
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	customerRepo repos.CustomerRepo,
	projectRepo repos.ProjectRepo,
	logRepo repos.SEOLogRepo,
	reportRepo repos.ReportRepo,
	fileRepo repos.StoredFileRepo,
	cache *redis.Client,
	humanSize func(int64) string,
) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
		logRepo:      logRepo,
		reportRepo:   reportRepo,
		fileRepo:     fileRepo,
		cache:        cache,
		humanSize:    humanSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (ds *dashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("dashboard:%s:%s", rd.Role, rd.UserID)
	if ds.cache != nil {
		if raw, err := ds.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Dashboard
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var dash *Dashboard
	switch rd.Role {
	case types.RoleAdmin:
		dash, err = ds.adminDashboard(ctx)
	case types.RoleProvider:
		dash, err = ds.providerDashboard(ctx, rd.UserID)
	case types.RoleCustomer:
		dash, err = ds.customerDashboard(ctx, rd.UserID)
	default:
		return nil, apierr.PermissionDenied("unknown role %q", rd.Role)
	}
	if err != nil {
		return nil, err
	}

	if ds.cache != nil {
		if raw, err := json.Marshal(dash); err == nil {
			if err := ds.cache.Set(ctx, cacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				ds.log.Warn("Failed to cache dashboard", "key", cacheKey, "error", err)
			}
		}
	}
	return dash, nil
}

func (ds *dashboardService) adminDashboard(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{Role: types.RoleAdmin}
	var err error
	if dash.CustomerCount, err = ds.customerRepo.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("Failed to count customers: %w", err)
	}
	if dash.ActiveProjectCount, err = ds.projectRepo.CountActive(ctx, nil); err != nil {
		return nil, fmt.Errorf("Failed to count active projects: %w", err)
	}
	since := ds.now().AddDate(0, 0, -30)
	if dash.ActiveUsers30d, err = ds.userRepo.CountActiveSince(ctx, nil, since); err != nil {
		return nil, fmt.Errorf("Failed to count active users: %w", err)
	}
	if dash.RecentLogs, err = ds.logRepo.List(ctx, nil, repos.SEOLogFilter{DateFrom: &since, Limit: 10}); err != nil {
		return nil, fmt.Errorf("Failed to list recent work logs: %w", err)
	}
	if dash.StorageUsedBytes, err = ds.fileRepo.TotalSize(ctx, nil); err != nil {
		return nil, fmt.Errorf("Failed to sum stored file sizes: %w", err)
	}
	dash.StorageUsedHuman = ds.humanSize(dash.StorageUsedBytes)
	return dash, nil
}

func (ds *dashboardService) providerDashboard(ctx context.Context, providerID uuid.UUID) (*Dashboard, error) {
	dash := &Dashboard{Role: types.RoleProvider}
	projects, err := ds.projectRepo.ListByProviderID(ctx, nil, providerID, repos.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("Failed to list assigned projects: %w", err)
	}
	dash.Projects = projects
	dash.ProjectCount = len(projects)

	since := ds.now().AddDate(0, 0, -30)
	logs, err := ds.logRepo.List(ctx, nil, repos.SEOLogFilter{CreatedByID: &providerID, DateFrom: &since, Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("Failed to list recent work logs: %w", err)
	}
	dash.RecentLogs = logs

	reports, err := ds.reportsForProjects(ctx, projects)
	if err != nil {
		return nil, err
	}
	dash.ReportCount = len(reports)
	for _, r := range reports {
		if r.Status == types.ReportStatusPublished {
			dash.PublishedReports++
		}
	}
	return dash, nil
}

func (ds *dashboardService) customerDashboard(ctx context.Context, accountID uuid.UUID) (*Dashboard, error) {
	dash := &Dashboard{Role: types.RoleCustomer}
	customer, err := ds.customerRepo.GetByAccountID(ctx, nil, accountID)
	if err != nil {
		return dash, nil
	}
	projects, err := ds.projectRepo.ListByCustomerID(ctx, nil, customer.ID, repos.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("Failed to list customer projects: %w", err)
	}
	dash.Projects = projects
	dash.ProjectCount = len(projects)

	reports, err := ds.reportsForProjects(ctx, projects)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r.Status == types.ReportStatusPublished {
			dash.PublishedReports++
		}
	}
	dash.ReportCount = dash.PublishedReports
	return dash, nil
}

func (ds *dashboardService) reportsForProjects(ctx context.Context, projects []*types.Project) ([]*types.Report, error) {
	if len(projects) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	reports, err := ds.reportRepo.ListByProjectIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("Failed to list reports: %w", err)
	}
	return reports, nil
}
