package drive

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/u759/AllanAI-sub001/domain/archive"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// Uploader defines the interface for Google Drive upload operations
// This allows mocking the Google Drive API in tests
type Uploader interface {
	Create(ctx context.Context, meta *drive.File, localPath string) (*drive.File, error)
	Share(ctx context.Context, fileID string) error
}

// GoogleDriveUploader is the production implementation using the Drive API
type GoogleDriveUploader struct {
	service *drive.Service
}

// Create uploads the local file with the given metadata
func (u *GoogleDriveUploader) Create(ctx context.Context, meta *drive.File, localPath string) (*drive.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open file for upload: %w", err)
	}
	defer f.Close()

	return u.service.Files.Create(meta).
		Media(f).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
}

// Share grants anyone-with-link read access
func (u *GoogleDriveUploader) Share(ctx context.Context, fileID string) error {
	_, err := u.service.Permissions.Create(fileID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	return err
}

// Archiver implements archive.Archiver by uploading match videos to a
// configured Google Drive folder.
type Archiver struct {
	uploader Uploader
	folderID string
}

// ArchiverOption is a functional option for configuring Archiver
type ArchiverOption func(*Archiver)

// WithUploader sets a custom uploader (for testing)
func WithUploader(u Uploader) ArchiverOption {
	return func(a *Archiver) {
		a.uploader = u
	}
}

// NewArchiver creates a Drive archiver. Without a custom uploader it
// authenticates with the configured service-account credentials.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig, opts ...ArchiverOption) (*Archiver, error) {
	a := &Archiver{folderID: cfg.FolderID}

	for _, opt := range opts {
		opt(a)
	}

	if a.uploader == nil {
		svc, err := newDriveService(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		a.uploader = svc
	}

	return a, nil
}

// newDriveService creates a production Google Drive service
func newDriveService(ctx context.Context, credentialsPath string) (*GoogleDriveUploader, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := jwt.Client(ctx)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveUploader{service: srv}, nil
}

// Upload implements archive.Archiver
func (a *Archiver) Upload(ctx context.Context, localPath, name string) (string, error) {
	meta := &drive.File{Name: name}
	if a.folderID != "" {
		meta.Parents = []string{a.folderID}
	}

	created, err := a.uploader.Create(ctx, meta, localPath)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	if err := a.uploader.Share(ctx, created.Id); err != nil {
		return "", fmt.Errorf("failed to share %s: %w", name, err)
	}

	return created.WebViewLink, nil
}

// Ensure Archiver implements archive.Archiver
var _ archive.Archiver = (*Archiver)(nil)
