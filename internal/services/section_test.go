package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newSectionService(e *testEnv) SectionService {
	return NewSectionService(e.db, e.log, e.sectionRepo, e.projectRepo, e.customerRepo, e.logRepo, e.fileRepo)
}

func TestCreateSectionSanitizesContent(t *testing.T) {
	e := newTestEnv(t)
	svc := newSectionService(e)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)

	section, err := svc.CreateSection(asUser(provider), SectionInput{
		ProjectID: project.ID,
		Title:     "Traffic",
		Content:   `<h3>Organic traffic</h3><img src=x onerror="alert(1)"><script>bad()</script>`,
	})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if strings.Contains(section.Content, "script") || strings.Contains(section.Content, "onerror") {
		t.Fatalf("markup not sanitized: %q", section.Content)
	}
	if !strings.Contains(section.Content, "<h3>Organic traffic</h3>") {
		t.Fatalf("benign markup stripped: %q", section.Content)
	}
	if section.Priority != 1 {
		t.Fatalf("priority default: want=1 got=%d", section.Priority)
	}
}

func TestCreateSectionRequiresTitleAndContent(t *testing.T) {
	e := newTestEnv(t)
	svc := newSectionService(e)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)

	cases := []SectionInput{
		{ProjectID: project.ID, Title: "", Content: "<p>body</p>"},
		{ProjectID: project.ID, Title: "No body", Content: "  "},
	}
	for _, input := range cases {
		if _, err := svc.CreateSection(asUser(provider), input); !apierr.IsValidation(err) {
			t.Fatalf("want validation error for %+v, got %v", input, err)
		}
	}
}

func TestAttachLogsRejectsCrossProject(t *testing.T) {
	e := newTestEnv(t)
	svc := newSectionService(e)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	other := e.createProject(t, customer.ID, provider)

	section := e.createSection(t, project.ID, provider.ID, "Work summary", 1)
	local := e.createLog(t, project.ID, provider.ID)
	foreign := e.createLog(t, other.ID, provider.ID)

	if _, err := svc.AttachLogs(asUser(provider), section.ID, []uuid.UUID{local.ID, foreign.ID}); !apierr.IsValidation(err) {
		t.Fatalf("want validation error for cross-project log, got %v", err)
	}
	if _, err := svc.AttachLogs(asUser(provider), section.ID, []uuid.UUID{local.ID, uuid.New()}); !apierr.IsNotFound(err) {
		t.Fatalf("want not found for unknown log, got %v", err)
	}

	attached, err := svc.AttachLogs(asUser(provider), section.ID, []uuid.UUID{local.ID})
	if err != nil {
		t.Fatalf("AttachLogs: %v", err)
	}
	if len(attached.Logs) != 1 || attached.Logs[0].ID != local.ID {
		t.Fatalf("attached logs: want=[%s] got=%d rows", local.ID, len(attached.Logs))
	}
}

func TestSectionWritesRequireAssignment(t *testing.T) {
	e := newTestEnv(t)
	svc := newSectionService(e)

	assigned := e.createUser(t, types.RoleProvider)
	outsider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID, assigned)

	input := SectionInput{ProjectID: project.ID, Title: "Denied", Content: "<p>nope</p>"}
	if _, err := svc.CreateSection(asUser(outsider), input); !apierr.IsPermissionDenied(err) {
		t.Fatalf("unassigned provider: want permission denied, got %v", err)
	}
	if _, err := svc.CreateSection(asUser(account), input); !apierr.IsPermissionDenied(err) {
		t.Fatalf("customer: want permission denied, got %v", err)
	}
}
