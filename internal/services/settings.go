package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

type NotificationSettingsInput struct {
	NotifyNewProject bool `json:"notify_new_project"`
	NotifyNewLog     bool `json:"notify_new_log"`
	NotifyReport     bool `json:"notify_report"`
	NotifyFile       bool `json:"notify_file"`
}

type AppearanceSettingsInput struct {
	Theme      string `json:"theme"`
	DateFormat string `json:"date_format"`
}

type ReportSettingsInput struct {
	ReportFormat string `json:"report_format"`
}

type SystemSettingsInput struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPSecurity string `json:"smtp_security"`
}

// SettingsService owns the explicit per-user configuration record. Callers
// fetch settings at the start of an operation and pass them onward; nothing
// lazily materializes them mid-flight.
type SettingsService interface {
	GetSettings(ctx context.Context) (*types.UserSettings, error)
	UpdateNotifications(ctx context.Context, input NotificationSettingsInput) (*types.UserSettings, error)
	UpdateAppearance(ctx context.Context, input AppearanceSettingsInput) (*types.UserSettings, error)
	UpdateReports(ctx context.Context, input ReportSettingsInput) (*types.UserSettings, error)
	UpdateSystem(ctx context.Context, input SystemSettingsInput) (*types.UserSettings, error)
}

type settingsService struct {
	db           *gorm.DB
	log          *logger.Logger
	settingsRepo repos.UserSettingsRepo
}

func NewSettingsService(db *gorm.DB, log *logger.Logger, settingsRepo repos.UserSettingsRepo) SettingsService {
	serviceLog := log.With("service", "SettingsService")
	return &settingsService{db: db, log: serviceLog, settingsRepo: settingsRepo}
}

// GetSettings creates the row with defaults when it does not exist yet.
// This is the one sanctioned creation point.
func (ss *settingsService) GetSettings(ctx context.Context) (*types.UserSettings, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := ss.settingsRepo.GetByUserID(ctx, nil, rd.UserID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("Failed to load settings: %w", err)
	}
	created, err := ss.settingsRepo.Create(ctx, nil, types.DefaultUserSettings(rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("Failed to create default settings: %w", err)
	}
	return created, nil
}

func (ss *settingsService) UpdateNotifications(ctx context.Context, input NotificationSettingsInput) (*types.UserSettings, error) {
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings.NotifyNewProject = input.NotifyNewProject
	settings.NotifyNewLog = input.NotifyNewLog
	settings.NotifyReport = input.NotifyReport
	settings.NotifyFile = input.NotifyFile
	if err := ss.settingsRepo.Update(ctx, nil, settings); err != nil {
		return nil, fmt.Errorf("Failed to update notification settings: %w", err)
	}
	return settings, nil
}

func (ss *settingsService) UpdateAppearance(ctx context.Context, input AppearanceSettingsInput) (*types.UserSettings, error) {
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if input.Theme != "" {
		settings.Theme = input.Theme
	}
	if input.DateFormat != "" {
		settings.DateFormat = input.DateFormat
	}
	if err := ss.settingsRepo.Update(ctx, nil, settings); err != nil {
		return nil, fmt.Errorf("Failed to update appearance settings: %w", err)
	}
	return settings, nil
}

func (ss *settingsService) UpdateReports(ctx context.Context, input ReportSettingsInput) (*types.UserSettings, error) {
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if input.ReportFormat != "" {
		if input.ReportFormat != "pdf" {
			return nil, apierr.Validation("unsupported report format %q", input.ReportFormat)
		}
		settings.ReportFormat = input.ReportFormat
	}
	if err := ss.settingsRepo.Update(ctx, nil, settings); err != nil {
		return nil, fmt.Errorf("Failed to update report settings: %w", err)
	}
	return settings, nil
}

func (ss *settingsService) UpdateSystem(ctx context.Context, input SystemSettingsInput) (*types.UserSettings, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can change system settings")
	}
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings.SMTPHost = input.SMTPHost
	settings.SMTPPort = input.SMTPPort
	if input.SMTPSecurity != "" {
		settings.SMTPSecurity = input.SMTPSecurity
	}
	if err := ss.settingsRepo.Update(ctx, nil, settings); err != nil {
		return nil, fmt.Errorf("Failed to update system settings: %w", err)
	}
	return settings, nil
}
