package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// testSchema mirrors the production tables. Spelled out by hand because the
// model tags carry postgres defaults sqlite cannot parse.
const testSchema = `
CREATE TABLE user (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  role TEXT NOT NULL DEFAULT 'provider',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE user_token (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  access_token TEXT,
  refresh_token TEXT,
  expires_at DATETIME,
  created_at DATETIME
);
CREATE TABLE user_settings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  notify_new_project BOOLEAN NOT NULL DEFAULT 1,
  notify_new_log BOOLEAN NOT NULL DEFAULT 1,
  notify_report BOOLEAN NOT NULL DEFAULT 1,
  notify_file BOOLEAN NOT NULL DEFAULT 1,
  theme TEXT NOT NULL DEFAULT 'light',
  date_format TEXT NOT NULL DEFAULT 'YYYY-MM-DD',
  report_format TEXT NOT NULL DEFAULT 'pdf',
  report_logo_key TEXT,
  smtp_host TEXT,
  smtp_port INTEGER,
  smtp_security TEXT NOT NULL DEFAULT 'tls',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE customer (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  website TEXT,
  logo_key TEXT,
  account_id TEXT,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE project (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  start_date DATETIME,
  end_date DATETIME,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE project_provider (
  project_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  PRIMARY KEY (project_id, user_id)
);
CREATE TABLE seo_log (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  date DATETIME,
  work_type TEXT NOT NULL,
  description TEXT,
  created_by_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE seo_log_provider (
  seo_log_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  PRIMARY KEY (seo_log_id, user_id)
);
CREATE TABLE stored_file (
  id TEXT PRIMARY KEY,
  owner_kind TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  original_name TEXT NOT NULL,
  content_type TEXT,
  size_bytes INTEGER,
  storage_key TEXT NOT NULL UNIQUE,
  file_url TEXT,
  uploaded_by_id TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE attachment_access (
  id TEXT PRIMARY KEY,
  file_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  accessed_at DATETIME,
  source_ip TEXT,
  user_agent TEXT
);
CREATE TABLE report_section (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 1,
  created_by_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE report_section_log (
  report_section_id TEXT NOT NULL,
  seo_log_id TEXT NOT NULL,
  PRIMARY KEY (report_section_id, seo_log_id)
);
CREATE TABLE report_section_file (
  report_section_id TEXT NOT NULL,
  stored_file_id TEXT NOT NULL,
  PRIMARY KEY (report_section_id, stored_file_id)
);
CREATE TABLE report (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  version INTEGER NOT NULL DEFAULT 0,
  created_by_id TEXT NOT NULL,
  last_reviewed_by_id TEXT,
  last_reviewed_at DATETIME,
  review_notes TEXT,
  publish_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);
CREATE TABLE report_section_order (
  id TEXT PRIMARY KEY,
  report_id TEXT NOT NULL,
  section_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  page_break_before BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  UNIQUE (report_id, position)
);
CREATE TABLE report_version (
  id TEXT PRIMARY KEY,
  report_id TEXT NOT NULL,
  version_number INTEGER NOT NULL,
  created_by_id TEXT NOT NULL,
  changes TEXT,
  layout TEXT,
  pdf_snapshot_key TEXT,
  created_at DATETIME,
  deleted_at DATETIME,
  UNIQUE (report_id, version_number)
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(0)"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sqlite: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes access across goroutines in concurrency tests.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// testEnv bundles the repos and fixture helpers most service tests need.
type testEnv struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo     repos.UserRepo
	tokenRepo    repos.UserTokenRepo
	settingsRepo repos.UserSettingsRepo
	customerRepo repos.CustomerRepo
	projectRepo  repos.ProjectRepo
	logRepo      repos.SEOLogRepo
	fileRepo     repos.StoredFileRepo
	accessRepo   repos.AttachmentAccessRepo
	sectionRepo  repos.SectionRepo
	reportRepo   repos.ReportRepo
	orderRepo    repos.SectionOrderRepo
	versionRepo  repos.ReportVersionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	log := logger.NewNop()
	return &testEnv{
		db:           db,
		log:          log,
		userRepo:     repos.NewUserRepo(db, log),
		tokenRepo:    repos.NewUserTokenRepo(db, log),
		settingsRepo: repos.NewUserSettingsRepo(db, log),
		customerRepo: repos.NewCustomerRepo(db, log),
		projectRepo:  repos.NewProjectRepo(db, log),
		logRepo:      repos.NewSEOLogRepo(db, log),
		fileRepo:     repos.NewStoredFileRepo(db, log),
		accessRepo:   repos.NewAttachmentAccessRepo(db, log),
		sectionRepo:  repos.NewSectionRepo(db, log),
		reportRepo:   repos.NewReportRepo(db, log),
		orderRepo:    repos.NewSectionOrderRepo(db, log),
		versionRepo:  repos.NewReportVersionRepo(db, log),
	}
}

func (e *testEnv) createUser(t *testing.T, role string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createCustomer(t *testing.T, accountID *uuid.UUID) *types.Customer {
	t.Helper()
	customer := &types.Customer{
		ID:        uuid.New(),
		Name:      "Acme",
		Email:     uuid.NewString() + "@acme.example.com",
		AccountID: accountID,
		IsActive:  true,
	}
	if err := e.db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func (e *testEnv) createProject(t *testing.T, customerID uuid.UUID, providers ...*types.User) *types.Project {
	t.Helper()
	project := &types.Project{
		ID:         uuid.New(),
		CustomerID: customerID,
		Name:       "Website relaunch",
		StartDate:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
	if err := e.db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	for _, p := range providers {
		if err := e.db.Exec("INSERT INTO project_provider (project_id, user_id) VALUES (?, ?)", project.ID, p.ID).Error; err != nil {
			t.Fatalf("assign provider: %v", err)
		}
	}
	return project
}

func (e *testEnv) createSection(t *testing.T, projectID, authorID uuid.UUID, title string, priority int) *types.ReportSection {
	t.Helper()
	section := &types.ReportSection{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Content:     "<p>" + title + " content</p>",
		Priority:    priority,
		CreatedByID: authorID,
	}
	if err := e.db.Create(section).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}
	return section
}

func asUser(user *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		SourceIP:  "192.0.2.10",
		UserAgent: "go-test",
	})
}
