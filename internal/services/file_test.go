package services

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/types"
)

func newFileService(e *testEnv, store *memStore) FileService {
	return NewFileService(e.db, e.log, e.fileRepo, e.accessRepo, e.logRepo, e.sectionRepo, e.projectRepo, e.customerRepo, store, events.NewBus(e.log))
}

func (e *testEnv) createLog(t *testing.T, projectID, authorID uuid.UUID) *types.SEOLog {
	t.Helper()
	entry := &types.SEOLog{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Date:        time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		WorkType:    types.WorkTypeOnPage,
		Description: "<p>Crawl fixes</p>",
		CreatedByID: authorID,
	}
	if err := e.db.Create(entry).Error; err != nil {
		t.Fatalf("create seo log: %v", err)
	}
	return entry
}

func TestUploadFileValidation(t *testing.T) {
	e := newTestEnv(t)
	store := newMemStore()
	svc := newFileService(e, store)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	entry := e.createLog(t, project.ID, provider.ID)

	base := UploadInput{
		OwnerKind: types.FileOwnerSEOLog,
		OwnerID:   entry.ID,
		Size:      64,
		Body:      strings.NewReader("payload"),
	}

	t.Run("disallowed extension", func(t *testing.T) {
		input := base
		input.OriginalName = "tool.exe"
		_, err := svc.UploadFile(asUser(provider), input)
		if !apierr.IsValidation(err) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	t.Run("over the size limit", func(t *testing.T) {
		input := base
		input.OriginalName = "big.pdf"
		input.Size = 60 << 20
		_, err := svc.UploadFile(asUser(provider), input)
		if !apierr.IsValidation(err) {
			t.Fatalf("want validation error, got %v", err)
		}
		if len(store.keys()) != 0 {
			t.Fatalf("rejected upload reached storage: %v", store.keys())
		}
	})

	t.Run("missing name", func(t *testing.T) {
		input := base
		input.OriginalName = "   "
		_, err := svc.UploadFile(asUser(provider), input)
		if !apierr.IsValidation(err) {
			t.Fatalf("want validation error, got %v", err)
		}
	})
}

func TestUploadFileStoresUnderOpaqueKey(t *testing.T) {
	e := newTestEnv(t)
	store := newMemStore()
	svc := newFileService(e, store)

	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	entry := e.createLog(t, project.ID, provider.ID)

	payload := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 10<<20)...)

	upload := func(t *testing.T) *types.StoredFile {
		file, err := svc.UploadFile(asUser(provider), UploadInput{
			OwnerKind:    types.FileOwnerSEOLog,
			OwnerID:      entry.ID,
			OriginalName: "audit.pdf",
			Size:         int64(len(payload)),
			Body:         bytes.NewReader(payload),
		})
		if err != nil {
			t.Fatalf("UploadFile: %v", err)
		}
		return file
	}

	first := upload(t)
	second := upload(t)

	for _, f := range []*types.StoredFile{first, second} {
		if f.StorageKey == f.OriginalName || strings.Contains(f.StorageKey, "audit.pdf") {
			t.Fatalf("storage key leaks the original name: %q", f.StorageKey)
		}
		if store.size(f.StorageKey) != len(payload) {
			t.Fatalf("stored size: want=%d got=%d", len(payload), store.size(f.StorageKey))
		}
	}
	// Same name, same owner: the keys still never collide.
	if first.StorageKey == second.StorageKey {
		t.Fatalf("duplicate storage key %q", first.StorageKey)
	}
	if first.ContentType != "application/pdf" {
		t.Fatalf("sniffed content type: want=application/pdf got=%q", first.ContentType)
	}
}

func TestCustomerCannotUploadAttachments(t *testing.T) {
	e := newTestEnv(t)
	svc := newFileService(e, newMemStore())

	provider := e.createUser(t, types.RoleProvider)
	account := e.createUser(t, types.RoleCustomer)
	customer := e.createCustomer(t, &account.ID)
	project := e.createProject(t, customer.ID, provider)
	entry := e.createLog(t, project.ID, provider.ID)

	_, err := svc.UploadFile(asUser(account), UploadInput{
		OwnerKind:    types.FileOwnerSEOLog,
		OwnerID:      entry.ID,
		OriginalName: "notes.txt",
		Size:         4,
		Body:         strings.NewReader("hola"),
	})
	if !apierr.IsPermissionDenied(err) {
		t.Fatalf("want permission denied, got %v", err)
	}
}

func TestServeAttachmentAppendsAccessTrail(t *testing.T) {
	e := newTestEnv(t)
	store := newMemStore()
	svc := newFileService(e, store)

	admin := e.createUser(t, types.RoleAdmin)
	provider := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider)
	entry := e.createLog(t, project.ID, provider.ID)

	file, err := svc.UploadFile(asUser(provider), UploadInput{
		OwnerKind:    types.FileOwnerSEOLog,
		OwnerID:      entry.ID,
		OriginalName: "keywords.csv",
		Size:         12,
		Body:         strings.NewReader("kw,volume\n"),
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	for i := 0; i < 2; i++ {
		dl, err := svc.ServeAttachment(asUser(provider), file.ID)
		if err != nil {
			t.Fatalf("ServeAttachment: %v", err)
		}
		if _, err := io.Copy(io.Discard, dl.Reader); err != nil {
			t.Fatalf("read attachment: %v", err)
		}
		dl.Reader.Close()
	}

	accesses, err := svc.ListAccessLog(asUser(admin), file.ID)
	if err != nil {
		t.Fatalf("ListAccessLog: %v", err)
	}
	if len(accesses) != 2 {
		t.Fatalf("access rows: want=2 got=%d", len(accesses))
	}
	for _, a := range accesses {
		if a.UserID != provider.ID {
			t.Fatalf("access user: want=%s got=%s", provider.ID, a.UserID)
		}
		if a.SourceIP != "192.0.2.10" || a.UserAgent != "go-test" {
			t.Fatalf("access trail missing caller identity: ip=%q agent=%q", a.SourceIP, a.UserAgent)
		}
	}

	if _, err := svc.ListAccessLog(asUser(provider), file.ID); !apierr.IsPermissionDenied(err) {
		t.Fatalf("want permission denied for non-admin access trail, got %v", err)
	}
}

func TestDeleteFileRemovesBlob(t *testing.T) {
	e := newTestEnv(t)
	store := newMemStore()
	svc := newFileService(e, store)

	provider := e.createUser(t, types.RoleProvider)
	other := e.createUser(t, types.RoleProvider)
	customer := e.createCustomer(t, nil)
	project := e.createProject(t, customer.ID, provider, other)
	entry := e.createLog(t, project.ID, provider.ID)

	file, err := svc.UploadFile(asUser(provider), UploadInput{
		OwnerKind:    types.FileOwnerSEOLog,
		OwnerID:      entry.ID,
		OriginalName: "before.png",
		Size:         8,
		Body:         strings.NewReader("imgbytes"),
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	if err := svc.DeleteFile(asUser(other), file.ID); !apierr.IsPermissionDenied(err) {
		t.Fatalf("want permission denied for non-uploader, got %v", err)
	}
	if err := svc.DeleteFile(asUser(provider), file.ID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != file.StorageKey {
		t.Fatalf("blob not removed: deletes=%v", store.deletes)
	}
	if _, err := svc.ServeAttachment(asUser(provider), file.ID); !apierr.IsNotFound(err) {
		t.Fatalf("want not found after delete, got %v", err)
	}
}
