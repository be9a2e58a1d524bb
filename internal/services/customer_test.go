package services

import (
	"testing"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newCustomerService(e *testEnv) CustomerService {
	return NewCustomerService(e.db, e.log, e.customerRepo, e.userRepo)
}

func TestCreateCustomerStaffOnly(t *testing.T) {
	e := newTestEnv(t)
	svc := newCustomerService(e)

	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)

	if _, err := svc.CreateCustomer(asUser(account), CustomerInput{Name: "Acme", Email: "biz@acme.test"}); !apierr.IsPermissionDenied(err) {
		t.Fatalf("customer create: want permission denied, got %v", err)
	}
	if _, err := svc.CreateCustomer(asUser(provider), CustomerInput{Name: "", Email: "biz@acme.test"}); !apierr.IsValidation(err) {
		t.Fatalf("blank name: want validation error, got %v", err)
	}

	created, err := svc.CreateCustomer(asUser(provider), CustomerInput{
		Name:      "Acme",
		Email:     "Biz@Acme.TEST",
		AccountID: &account.ID,
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if created.Email != "biz@acme.test" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.AccountID == nil || *created.AccountID != account.ID {
		t.Fatalf("account link missing")
	}
	if !created.IsActive {
		t.Fatalf("new customer should start active")
	}
}

func TestCreateCustomerRejectsNonCustomerAccount(t *testing.T) {
	e := newTestEnv(t)
	svc := newCustomerService(e)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)

	_, err := svc.CreateCustomer(asUser(admin), CustomerInput{
		Name:      "Acme",
		Email:     "biz@acme.test",
		AccountID: &provider.ID,
	})
	if !apierr.IsValidation(err) {
		t.Fatalf("provider as customer account: want validation error, got %v", err)
	}
}

func TestDeactivateCustomerAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	svc := newCustomerService(e)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)

	off := false
	if _, err := svc.UpdateCustomer(asUser(provider), customer.ID, CustomerInput{IsActive: &off}); !apierr.IsPermissionDenied(err) {
		t.Fatalf("provider deactivate: want permission denied, got %v", err)
	}
	updated, err := svc.UpdateCustomer(asUser(admin), customer.ID, CustomerInput{IsActive: &off})
	if err != nil {
		t.Fatalf("admin UpdateCustomer: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("customer still active after deactivation")
	}
}
