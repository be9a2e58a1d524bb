package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/apierr"
	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/requestdata"
	"github.com/yungbote/seoportal-backend/internal/storage"
	"github.com/yungbote/seoportal-backend/internal/types"
	"github.com/yungbote/seoportal-backend/internal/utils"
)

// MaxUploadBytes is the hard ceiling on a single uploaded file.
const MaxUploadBytes int64 = 50 << 20

var allowedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".webp": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".csv": true, ".txt": true,
	".zip": true,
}

type UploadInput struct {
	OwnerKind    string
	OwnerID      uuid.UUID
	OriginalName string
	Description  string
	Size         int64
	Body         io.Reader
}

// AttachmentDownload carries the stored bytes plus the metadata a handler
// needs to build the response.
type AttachmentDownload struct {
	File   *types.StoredFile
	Reader io.ReadCloser
}

type FileService interface {
	UploadFile(ctx context.Context, input UploadInput) (*types.StoredFile, error)
	DeleteFile(ctx context.Context, id uuid.UUID) error
	ServeAttachment(ctx context.Context, id uuid.UUID) (*AttachmentDownload, error)
	ListAccessLog(ctx context.Context, fileID uuid.UUID) ([]*types.AttachmentAccess, error)
}

type fileService struct {
	db           *gorm.DB
	log          *logger.Logger
	fileRepo     repos.StoredFileRepo
	accessRepo   repos.AttachmentAccessRepo
	logRepo      repos.SEOLogRepo
	sectionRepo  repos.SectionRepo
	projectRepo  repos.ProjectRepo
	customerRepo repos.CustomerRepo
	store        storage.Store
	bus          *events.Bus
}

func NewFileService(
	db *gorm.DB,
	log *logger.Logger,
	fileRepo repos.StoredFileRepo,
	accessRepo repos.AttachmentAccessRepo,
	logRepo repos.SEOLogRepo,
	sectionRepo repos.SectionRepo,
	projectRepo repos.ProjectRepo,
	customerRepo repos.CustomerRepo,
	store storage.Store,
	bus *events.Bus,
) FileService {
	serviceLog := log.With("service", "FileService")
	return &fileService{
		db:           db,
		log:          serviceLog,
		fileRepo:     fileRepo,
		accessRepo:   accessRepo,
		logRepo:      logRepo,
		sectionRepo:  sectionRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
		store:        store,
		bus:          bus,
	}
}

func validOwnerKind(kind string) bool {
	switch kind {
	case types.FileOwnerSEOLog, types.FileOwnerReportSection,
		types.FileOwnerCustomerLogo, types.FileOwnerSettingsLogo:
		return true
	}
	return false
}

// projectForFile resolves the project a stored file ultimately belongs to
// so the standard visibility rule can be applied. Logo files have no
// project and return nil.
func (fs *fileService) projectForFile(ctx context.Context, file *types.StoredFile) (*types.Project, error) {
	switch file.OwnerKind {
	case types.FileOwnerSEOLog:
		entry, err := fs.logRepo.GetByID(ctx, nil, file.OwnerID)
		if err != nil {
			return nil, notFoundOr(err, "work log %s not found", file.OwnerID)
		}
		project, err := fs.projectRepo.GetByID(ctx, nil, entry.ProjectID)
		if err != nil {
			return nil, notFoundOr(err, "project %s not found", entry.ProjectID)
		}
		return project, nil
	case types.FileOwnerReportSection:
		section, err := fs.sectionRepo.GetByID(ctx, nil, file.OwnerID)
		if err != nil {
			return nil, notFoundOr(err, "report section %s not found", file.OwnerID)
		}
		project, err := fs.projectRepo.GetByID(ctx, nil, section.ProjectID)
		if err != nil {
			return nil, notFoundOr(err, "project %s not found", section.ProjectID)
		}
		return project, nil
	default:
		return nil, nil
	}
}

func (fs *fileService) canUpload(ctx context.Context, rd *requestdata.RequestData, input UploadInput) error {
	switch input.OwnerKind {
	case types.FileOwnerSettingsLogo:
		if input.OwnerID != rd.UserID {
			return apierr.PermissionDenied("settings logos can only be uploaded to your own settings")
		}
		return nil
	case types.FileOwnerCustomerLogo:
		if rd.Role == types.RoleCustomer {
			return apierr.PermissionDenied("customers cannot upload customer logos")
		}
		return nil
	}
	if rd.Role == types.RoleCustomer {
		return apierr.PermissionDenied("customers cannot upload attachments")
	}
	if rd.Role == types.RoleAdmin {
		return nil
	}
	file := &types.StoredFile{OwnerKind: input.OwnerKind, OwnerID: input.OwnerID}
	project, err := fs.projectForFile(ctx, file)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}
	assigned, err := fs.projectRepo.IsProviderAssigned(ctx, nil, project.ID, rd.UserID)
	if err != nil {
		return fmt.Errorf("Failed to check project assignment: %w", err)
	}
	if !assigned {
		return apierr.PermissionDenied("you are not assigned to this project")
	}
	return nil
}

func (fs *fileService) UploadFile(ctx context.Context, input UploadInput) (*types.StoredFile, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !validOwnerKind(input.OwnerKind) {
		return nil, apierr.Validation("invalid file owner kind %q", input.OwnerKind)
	}
	name := strings.TrimSpace(input.OriginalName)
	if name == "" {
		return nil, apierr.Validation("file name is required")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, apierr.Validation("file type %q is not allowed", ext)
	}
	if input.Size > MaxUploadBytes {
		return nil, apierr.Validation("file exceeds the %s limit", utils.HumanSize(MaxUploadBytes))
	}
	if err := fs.canUpload(ctx, rd, input); err != nil {
		return nil, err
	}

	// Sniff the real content type from the leading bytes instead of
	// trusting the client-provided header.
	head := make([]byte, 512)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apierr.Storage("failed to read upload: %v", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	body := io.MultiReader(bytes.NewReader(head), input.Body)
	if input.Size > 0 {
		body = io.LimitReader(body, input.Size)
	}

	key := fmt.Sprintf("%s/%s/%s%s", input.OwnerKind, input.OwnerID, uuid.New(), ext)
	if err := fs.store.Put(ctx, key, body); err != nil {
		return nil, apierr.Storage("failed to store file: %v", err)
	}

	file := &types.StoredFile{
		ID:           uuid.New(),
		OwnerKind:    input.OwnerKind,
		OwnerID:      input.OwnerID,
		OriginalName: name,
		ContentType:  contentType,
		SizeBytes:    input.Size,
		StorageKey:   key,
		FileURL:      fs.store.PublicURL(key),
		UploadedByID: rd.UserID,
		Description:  strings.TrimSpace(input.Description),
	}
	if _, err := fs.fileRepo.Create(ctx, nil, []*types.StoredFile{file}); err != nil {
		// The blob is already written; clean it up so the key is not
		// stranded without a row.
		if derr := fs.store.Delete(ctx, key); derr != nil {
			fs.log.Warn("Failed to clean up stored object after row failure", "key", key, "error", derr)
		}
		return nil, fmt.Errorf("Failed to record file: %w", err)
	}

	if project, perr := fs.projectForFile(ctx, file); perr == nil && project != nil {
		fs.bus.Publish(ctx, events.Event{
			Kind:      events.KindFileUploaded,
			ActorID:   rd.UserID,
			ProjectID: project.ID,
			SubjectID: file.ID,
			Title:     fmt.Sprintf("File %q uploaded to %q", file.OriginalName, project.Name),
		})
	}
	return file, nil
}

func (fs *fileService) DeleteFile(ctx context.Context, id uuid.UUID) error {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	file, err := fs.fileRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "file %s not found", id)
	}
	if rd.Role != types.RoleAdmin && file.UploadedByID != rd.UserID {
		return apierr.PermissionDenied("only the uploader or an administrator can delete a file")
	}
	if err := fs.fileRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{file.ID}); err != nil {
		return fmt.Errorf("Failed to delete file record: %w", err)
	}
	if err := fs.store.Delete(ctx, file.StorageKey); err != nil {
		fs.log.Warn("Failed to delete stored object", "key", file.StorageKey, "error", err)
	}
	return nil
}

func (fs *fileService) ServeAttachment(ctx context.Context, id uuid.UUID) (*AttachmentDownload, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	file, err := fs.fileRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "file %s not found", id)
	}
	project, err := fs.projectForFile(ctx, file)
	if err != nil {
		return nil, err
	}
	if project != nil {
		ok, err := canViewProject(ctx, nil, fs.projectRepo, fs.customerRepo, rd, project)
		if err != nil {
			return nil, fmt.Errorf("Failed to evaluate project visibility: %w", err)
		}
		if !ok {
			return nil, apierr.PermissionDenied("you don't have permission to access this file")
		}
	}
	reader, err := fs.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, apierr.Storage("failed to read stored file: %v", err)
	}
	access := &types.AttachmentAccess{
		ID:         uuid.New(),
		FileID:     file.ID,
		UserID:     rd.UserID,
		AccessedAt: time.Now().UTC(),
		SourceIP:   rd.SourceIP,
		UserAgent:  rd.UserAgent,
	}
	if err := fs.accessRepo.Append(ctx, nil, access); err != nil {
		reader.Close()
		return nil, fmt.Errorf("Failed to record attachment access: %w", err)
	}
	return &AttachmentDownload{File: file, Reader: reader}, nil
}

func (fs *fileService) ListAccessLog(ctx context.Context, fileID uuid.UUID) ([]*types.AttachmentAccess, error) {
	rd, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.PermissionDenied("only administrators can view the access trail")
	}
	if _, err := fs.fileRepo.GetByID(ctx, nil, fileID); err != nil {
		return nil, notFoundOr(err, "file %s not found", fileID)
	}
	return fs.accessRepo.ListByFileID(ctx, nil, fileID)
}
