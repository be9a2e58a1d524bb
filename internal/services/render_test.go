package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newRenderService(e *testEnv, renderer *stubRenderer, store *memStore) *renderService {
	svc := NewRenderService(e.db, e.log, e.reportRepo, e.orderRepo, e.versionRepo, e.projectRepo, e.customerRepo, e.userRepo, e.settingsRepo, renderer, store)
	rs := svc.(*renderService)
	rs.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }
	return rs
}

func TestRenderPDFIsDeterministic(t *testing.T) {
	e := newTestEnv(t)
	reportSvc := newReportService(e)
	renderer := &stubRenderer{}
	svc := newRenderService(e, renderer, newMemStore())

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	s1 := e.createSection(t, project.ID, provider.ID, "Rankings", 1)
	s2 := e.createSection(t, project.ID, provider.ID, "Backlinks", 2)

	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "Quarterly review",
		Sections: []ReportSectionPlacement{
			{SectionID: s1.ID},
			{SectionID: s2.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	first, err := svc.RenderPDF(asUser(provider), report.ID)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	second, err := svc.RenderPDF(asUser(provider), report.ID)
	if err != nil {
		t.Fatalf("RenderPDF again: %v", err)
	}
	if first.HTML != second.HTML {
		t.Fatalf("HTML differs across renders of the same report")
	}
	if !bytes.Equal(first.PDF, second.PDF) {
		t.Fatalf("PDF differs across renders of the same report")
	}
	wantName := report.ID.String() + "-v1.pdf"
	if first.FileName != wantName {
		t.Fatalf("file name: want=%q got=%q", wantName, first.FileName)
	}
	if !strings.Contains(first.HTML, "Rankings") || !strings.Contains(first.HTML, "Backlinks") {
		t.Fatalf("section titles missing from output")
	}
	if !strings.Contains(first.HTML, "Quarterly review") {
		t.Fatalf("report title missing from output")
	}
}

func TestRenderPageBreaksFollowLayout(t *testing.T) {
	e := newTestEnv(t)
	reportSvc := newReportService(e)
	svc := newRenderService(e, &stubRenderer{}, newMemStore())

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	s1 := e.createSection(t, project.ID, provider.ID, "Overview", 1)
	s2 := e.createSection(t, project.ID, provider.ID, "Details", 2)
	s3 := e.createSection(t, project.ID, provider.ID, "Appendix", 3)

	off := false
	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "Layout check",
		Sections: []ReportSectionPlacement{
			{SectionID: s1.ID},
			{SectionID: s2.ID, PageBreakBefore: &off},
			{SectionID: s3.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	out, err := svc.RenderPDF(asUser(provider), report.ID)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	// The first section never breaks, the second opted out, only the third
	// starts a new page.
	if got := strings.Count(out.HTML, "page-break\""); got != 1 {
		t.Fatalf("page break markers: want=1 got=%d", got)
	}
}

func TestCustomerCannotRenderUnpublishedReport(t *testing.T) {
	e := newTestEnv(t)
	reportSvc := newReportService(e)
	svc := newRenderService(e, &stubRenderer{}, newMemStore())

	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID, provider)
	section := e.createSection(t, project.ID, provider.ID, "Summary", 1)

	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "Draft only",
		Sections:  []ReportSectionPlacement{{SectionID: section.ID}},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if _, err := svc.RenderPDF(asUser(account), report.ID); !apierr.IsNotFound(err) {
		t.Fatalf("want not found for unpublished report, got %v", err)
	}
}

func TestSnapshotVersionPinsPDFToCurrentVersion(t *testing.T) {
	e := newTestEnv(t)
	reportSvc := newReportService(e)
	store := newMemStore()
	svc := newRenderService(e, &stubRenderer{}, store)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	section := e.createSection(t, project.ID, provider.ID, "Summary", 1)

	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "Snapshot target",
		Sections:  []ReportSectionPlacement{{SectionID: section.ID}},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	version, err := svc.SnapshotVersion(asUser(provider), report.ID)
	if err != nil {
		t.Fatalf("SnapshotVersion: %v", err)
	}
	if version.VersionNumber != 1 {
		t.Fatalf("snapshot version: want=1 got=%d", version.VersionNumber)
	}
	if version.PDFSnapshotKey == "" {
		t.Fatalf("snapshot key not recorded")
	}
	if store.size(version.PDFSnapshotKey) == 0 {
		t.Fatalf("snapshot blob missing under %q", version.PDFSnapshotKey)
	}
}

func TestRenderPDFPassesAssetBaseURL(t *testing.T) {
	e := newTestEnv(t)
	reportSvc := newReportService(e)
	renderer := &stubRenderer{}
	store := newMemStore()
	svc := newRenderService(e, renderer, store)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	section := e.createSection(t, project.ID, provider.ID, "Assets", 1)

	report, err := reportSvc.CreateReport(asUser(provider), ReportCreateInput{
		ProjectID: project.ID,
		Title:     "With images",
		Sections:  []ReportSectionPlacement{{SectionID: section.ID}},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if _, err := svc.RenderPDF(asUser(provider), report.ID); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}

	// Relative asset references in section content resolve against the
	// storage root, so the converter must be told about it.
	if len(renderer.baseURLs) != 1 {
		t.Fatalf("render calls: want=1 got=%d", len(renderer.baseURLs))
	}
	if want := store.PublicURL(""); renderer.baseURLs[0] != want {
		t.Fatalf("base URL: want=%q got=%q", want, renderer.baseURLs[0])
	}
}
