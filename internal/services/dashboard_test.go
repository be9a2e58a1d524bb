package services

import (
	"testing"

	"github.com/yungbote/seoportal-backend/internal/types"
	"github.com/yungbote/seoportal-backend/internal/utils"
)

func newDashboardService(e *testEnv) DashboardService {
	return NewDashboardService(e.db, e.log, e.userRepo, e.customerRepo, e.projectRepo, e.logRepo, e.reportRepo, e.fileRepo, nil, utils.HumanSize)
}

func TestDashboardScopedByRole(t *testing.T) {
	e := newTestEnv(t)
	svc := newDashboardService(e)
	reportSvc := newReportService(e)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID, provider)
	section := e.createSection(t, project.ID, provider.ID, "Summary", 1)
	e.createLog(t, project.ID, provider.ID)

	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "Monthly",
		Sections:  []ReportSectionPlacement{{SectionID: section.ID}},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	adminDash, err := svc.GetDashboard(asUser(admin))
	if err != nil {
		t.Fatalf("admin GetDashboard: %v", err)
	}
	if adminDash.Role != types.RoleAdmin {
		t.Fatalf("role: want=%q got=%q", types.RoleAdmin, adminDash.Role)
	}
	if adminDash.CustomerCount != 1 || adminDash.ActiveProjectCount != 1 {
		t.Fatalf("admin counts: customers=%d active projects=%d", adminDash.CustomerCount, adminDash.ActiveProjectCount)
	}
	if adminDash.StorageUsedHuman == "" {
		t.Fatalf("storage summary missing")
	}

	providerDash, err := svc.GetDashboard(asUser(provider))
	if err != nil {
		t.Fatalf("provider GetDashboard: %v", err)
	}
	if providerDash.ProjectCount != 1 || providerDash.ReportCount != 1 {
		t.Fatalf("provider counts: projects=%d reports=%d", providerDash.ProjectCount, providerDash.ReportCount)
	}
	if providerDash.PublishedReports != 0 {
		t.Fatalf("draft counted as published")
	}

	// Customers only ever see published numbers.
	customerDash, err := svc.GetDashboard(asUser(account))
	if err != nil {
		t.Fatalf("customer GetDashboard: %v", err)
	}
	if customerDash.ReportCount != 0 || customerDash.PublishedReports != 0 {
		t.Fatalf("customer sees unpublished report: total=%d published=%d", customerDash.ReportCount, customerDash.PublishedReports)
	}

	if _, err := reportSvc.SubmitForReview(asUser(provider), report.ID); err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}
	if _, err := reportSvc.Review(asUser(admin), report.ID, ReviewInput{Approve: true}); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if _, err := reportSvc.Publish(asUser(admin), report.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	customerDash, err = svc.GetDashboard(asUser(account))
	if err != nil {
		t.Fatalf("customer GetDashboard after publish: %v", err)
	}
	if customerDash.PublishedReports != 1 || customerDash.ReportCount != 1 {
		t.Fatalf("published report missing: total=%d published=%d", customerDash.ReportCount, customerDash.PublishedReports)
	}
}
