package services

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newSEOLogService(e *testEnv, visibility LogVisibility) SEOLogService {
	return NewSEOLogService(e.db, e.log, e.logRepo, e.projectRepo, e.customerRepo, e.userRepo, e.fileRepo, newMemStore(), events.NewBus(e.log), visibility)
}

func TestCreateLogSanitizesDescription(t *testing.T) {
	e := newTestEnv(t)
	svc := newSEOLogService(e, LogVisibilityOwn)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)

	entry, err := svc.CreateLog(asUser(provider), SEOLogInput{
		ProjectID:   project.ID,
		WorkType:    types.WorkTypeTechnical,
		Description: `<p onclick="alert(1)">Fixed <b>redirect</b> chains</p><script>steal()</script>`,
		WorkDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if strings.Contains(entry.Description, "<script") || strings.Contains(entry.Description, "onclick") {
		t.Fatalf("markup not sanitized: %q", entry.Description)
	}
	if !strings.Contains(entry.Description, "<b>redirect</b>") {
		t.Fatalf("benign markup stripped: %q", entry.Description)
	}
}

func TestCreateLogDefaultsProviderListToAuthor(t *testing.T) {
	e := newTestEnv(t)
	svc := newSEOLogService(e, LogVisibilityOwn)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)

	entry, err := svc.CreateLog(asUser(provider), SEOLogInput{
		ProjectID:   project.ID,
		WorkType:    types.WorkTypeContent,
		Description: "<p>Wrote landing page copy</p>",
		WorkDate:    time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	stored, err := e.logRepo.GetByID(asUser(provider), nil, entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Providers) != 1 || stored.Providers[0].ID != provider.ID {
		t.Fatalf("providers: want author only, got %d rows", len(stored.Providers))
	}
}

func TestCreateLogDeniedOffProjectAndForCustomers(t *testing.T) {
	e := newTestEnv(t)
	svc := newSEOLogService(e, LogVisibilityOwn)

	assigned := e.createUser(t, types.RoleProvider)
	outsider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID, assigned)

	input := SEOLogInput{
		ProjectID:   project.ID,
		WorkType:    types.WorkTypeOther,
		Description: "<p>Misc</p>",
		WorkDate:    time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
	}
	if _, err := svc.CreateLog(asUser(outsider), input); !apierr.IsPermissionDenied(err) {
		t.Fatalf("unassigned provider: want permission denied, got %v", err)
	}
	if _, err := svc.CreateLog(asUser(account), input); !apierr.IsPermissionDenied(err) {
		t.Fatalf("customer: want permission denied, got %v", err)
	}
}

func TestListLogsVisibilityPolicy(t *testing.T) {
	e := newTestEnv(t)

	alice := e.createUser(t, types.RoleProvider)
	bob := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, alice, bob)

	seed := func(t *testing.T, svc SEOLogService, author *types.User, desc string) {
		t.Helper()
		_, err := svc.CreateLog(asUser(author), SEOLogInput{
			ProjectID:   project.ID,
			WorkType:    types.WorkTypeOnPage,
			Description: desc,
			WorkDate:    time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateLog: %v", err)
		}
	}

	own := newSEOLogService(e, LogVisibilityOwn)
	seed(t, own, alice, "<p>Alice's audit</p>")
	seed(t, own, bob, "<p>Bob's audit</p>")

	logs, err := own.ListLogs(asUser(alice), repos.SEOLogFilter{})
	if err != nil {
		t.Fatalf("ListLogs own: %v", err)
	}
	if len(logs) != 1 || logs[0].CreatedByID != alice.ID {
		t.Fatalf("own policy: want only alice's log, got %d rows", len(logs))
	}

	wide := newSEOLogService(e, LogVisibilityProject)
	logs, err = wide.ListLogs(asUser(alice), repos.SEOLogFilter{})
	if err != nil {
		t.Fatalf("ListLogs project: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("project policy: want both logs, got %d rows", len(logs))
	}
}

func TestUpdateLogOnlyAuthorOrAdmin(t *testing.T) {
	e := newTestEnv(t)
	svc := newSEOLogService(e, LogVisibilityOwn)

	admin := e.createUser(t, types.RoleAdmin)
	author := e.createUser(t, types.RoleProvider)
	other := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, author, other)

	entry, err := svc.CreateLog(asUser(author), SEOLogInput{
		ProjectID:   project.ID,
		WorkType:    types.WorkTypeAnalytics,
		Description: "<p>Set up tracking</p>",
		WorkDate:    time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	update := SEOLogInput{
		ProjectID:   project.ID,
		WorkType:    types.WorkTypeAnalytics,
		Description: "<p>Set up tracking and dashboards</p>",
		WorkDate:    entry.Date,
	}
	if _, err := svc.UpdateLog(asUser(other), entry.ID, update); !apierr.IsPermissionDenied(err) {
		t.Fatalf("non-author: want permission denied, got %v", err)
	}
	updated, err := svc.UpdateLog(asUser(admin), entry.ID, update)
	if err != nil {
		t.Fatalf("admin UpdateLog: %v", err)
	}
	if !strings.Contains(updated.Description, "dashboards") {
		t.Fatalf("update not applied: %q", updated.Description)
	}
}

func TestParseLogVisibility(t *testing.T) {
	cases := []struct {
		in   string
		want LogVisibility
	}{
		{"own", LogVisibilityOwn},
		{"project", LogVisibilityProject},
		{"", LogVisibilityOwn},
		{"bogus", LogVisibilityOwn},
	}
	for _, tc := range cases {
		if got := ParseLogVisibility(tc.in); got != tc.want {
			t.Fatalf("ParseLogVisibility(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
