package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newProjectService(e *testEnv) ProjectService {
	return NewProjectService(e.db, e.log, e.projectRepo, e.customerRepo, e.userRepo, events.NewBus(e.log))
}

func TestCreateProjectAdminOnlyWithValidDates(t *testing.T) {
	e := newTestEnv(t)
	svc := newProjectService(e)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	input := ProjectInput{
		CustomerID: customer.ID,
		Name:       "Content push",
		StartDate:  start,
	}

	if _, err := svc.CreateProject(asUser(provider), input); !apierr.IsPermissionDenied(err) {
		t.Fatalf("provider create: want permission denied, got %v", err)
	}

	bad := input
	end := start.AddDate(0, -1, 0)
	bad.EndDate = &end
	if _, err := svc.CreateProject(asUser(admin), bad); !apierr.IsValidation(err) {
		t.Fatalf("end before start: want validation error, got %v", err)
	}

	project, err := svc.CreateProject(asUser(admin), input)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if !project.IsActive {
		t.Fatalf("new project should start active")
	}
}

func TestAssignProvidersRejectsNonProviders(t *testing.T) {
	e := newTestEnv(t)
	svc := newProjectService(e)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID)

	if _, err := svc.AssignProviders(asUser(provider), project.ID, []uuid.UUID{provider.ID}); !apierr.IsPermissionDenied(err) {
		t.Fatalf("non-admin assign: want permission denied, got %v", err)
	}
	if _, err := svc.AssignProviders(asUser(admin), project.ID, []uuid.UUID{account.ID}); !apierr.IsValidation(err) {
		t.Fatalf("customer in provider list: want validation error, got %v", err)
	}

	assigned, err := svc.AssignProviders(asUser(admin), project.ID, []uuid.UUID{provider.ID})
	if err != nil {
		t.Fatalf("AssignProviders: %v", err)
	}
	if len(assigned.Providers) != 1 || assigned.Providers[0].ID != provider.ID {
		t.Fatalf("providers: want=[%s] got=%d rows", provider.ID, len(assigned.Providers))
	}
}

func TestListProjectsScopedByRole(t *testing.T) {
	e := newTestEnv(t)
	svc := newProjectService(e)

	admin := e.createUser(t, types.RoleAdmin)
	alice := e.createUser(t, types.RoleProvider)
	bob := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	orphan := e.createUser(t, types.RoleCustomer)

	owned := e.createCustomer(t, &account.ID)
	other := e.createCustomer(t, nil)

	p1 := e.createProject(t, owned.ID, alice)
	e.createProject(t, other.ID, bob)

	adminView, err := svc.ListProjects(asUser(admin), repos.ProjectFilter{})
	if err != nil {
		t.Fatalf("admin ListProjects: %v", err)
	}
	if len(adminView) != 2 {
		t.Fatalf("admin view: want=2 got=%d", len(adminView))
	}

	aliceView, err := svc.ListProjects(asUser(alice), repos.ProjectFilter{})
	if err != nil {
		t.Fatalf("provider ListProjects: %v", err)
	}
	if len(aliceView) != 1 || aliceView[0].ID != p1.ID {
		t.Fatalf("provider view: want only assigned project, got %d rows", len(aliceView))
	}

	customerView, err := svc.ListProjects(asUser(account), repos.ProjectFilter{})
	if err != nil {
		t.Fatalf("customer ListProjects: %v", err)
	}
	if len(customerView) != 1 || customerView[0].ID != p1.ID {
		t.Fatalf("customer view: want own project only, got %d rows", len(customerView))
	}

	orphanView, err := svc.ListProjects(asUser(orphan), repos.ProjectFilter{})
	if err != nil {
		t.Fatalf("orphan ListProjects: %v", err)
	}
	if len(orphanView) != 0 {
		t.Fatalf("customer without account link: want empty, got %d rows", len(orphanView))
	}
}
