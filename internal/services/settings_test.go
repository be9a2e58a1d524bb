package services

import (
	"testing"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func TestGetSettingsProvisionsDefaults(t *testing.T) {
	e := newTestEnv(t)
	svc := NewSettingsService(e.db, e.log, e.settingsRepo)

	provider := e.createUser(t, types.RoleProvider)

	settings, err := svc.GetSettings(asUser(provider))
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !settings.NotifyNewProject || !settings.NotifyReport {
		t.Fatalf("defaults should have notifications on: %+v", settings)
	}
	if settings.Theme != "light" || settings.ReportFormat != "pdf" {
		t.Fatalf("unexpected defaults: theme=%q format=%q", settings.Theme, settings.ReportFormat)
	}

	updated, err := svc.UpdateNotifications(asUser(provider), NotificationSettingsInput{
		NotifyNewProject: true,
		NotifyNewLog:     false,
		NotifyReport:     false,
		NotifyFile:       true,
	})
	if err != nil {
		t.Fatalf("UpdateNotifications: %v", err)
	}
	if updated.NotifyNewLog || updated.NotifyReport {
		t.Fatalf("toggles not persisted: %+v", updated)
	}

	reloaded, err := svc.GetSettings(asUser(provider))
	if err != nil {
		t.Fatalf("GetSettings reload: %v", err)
	}
	if reloaded.NotifyReport {
		t.Fatalf("toggle lost on reload")
	}
}

func TestUpdateProfileValidatesNames(t *testing.T) {
	e := newTestEnv(t)
	svc := NewUserService(e.db, e.log, e.userRepo)

	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)

	if _, err := svc.UpdateProfile(asUser(provider), "  ", "Reyes"); !apierr.IsValidation(err) {
		t.Fatalf("blank first name: want validation error, got %v", err)
	}
	updated, err := svc.UpdateProfile(asUser(provider), "Sam", "Reyes")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Sam" || updated.LastName != "Reyes" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	if _, err := svc.ListProviders(asUser(account)); !apierr.IsPermissionDenied(err) {
		t.Fatalf("customer ListProviders: want permission denied, got %v", err)
	}
	providers, err := svc.ListProviders(asUser(provider))
	if err != nil {
		t.Fatalf("ListProviders: %v", err)
	}
	if len(providers) != 1 || providers[0].ID != provider.ID {
		t.Fatalf("providers: want=[%s] got=%d rows", provider.ID, len(providers))
	}
}
