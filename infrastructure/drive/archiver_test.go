package drive

import (
	"context"
	"errors"
	"strings"
	"testing"

	drivev3 "google.golang.org/api/drive/v3"

	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// fakeUploader records Drive calls without touching the network.
type fakeUploader struct {
	createMeta *drivev3.File
	createPath string
	createErr  error
	sharedID   string
	shareErr   error
}

func (f *fakeUploader) Create(_ context.Context, meta *drivev3.File, localPath string) (*drivev3.File, error) {
	f.createMeta = meta
	f.createPath = localPath
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &drivev3.File{Id: "file-123", WebViewLink: "https://drive.google.com/file/d/file-123/view"}, nil
}

func (f *fakeUploader) Share(_ context.Context, fileID string) error {
	f.sharedID = fileID
	return f.shareErr
}

func TestArchiverUpload(t *testing.T) {
	fake := &fakeUploader{}
	a, err := NewArchiver(context.Background(), config.ArchiveConfig{FolderID: "folder-1"}, WithUploader(fake))
	if err != nil {
		t.Fatalf("NewArchiver: %v", err)
	}

	url, err := a.Upload(context.Background(), "/videos/m1.mp4", "match-m1.mp4")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if url != "https://drive.google.com/file/d/file-123/view" {
		t.Errorf("url = %q, want the webViewLink", url)
	}
	if fake.createMeta.Name != "match-m1.mp4" {
		t.Errorf("uploaded name = %q", fake.createMeta.Name)
	}
	if len(fake.createMeta.Parents) != 1 || fake.createMeta.Parents[0] != "folder-1" {
		t.Errorf("parents = %v, want [folder-1]", fake.createMeta.Parents)
	}
	if fake.createPath != "/videos/m1.mp4" {
		t.Errorf("uploaded path = %q", fake.createPath)
	}
	if fake.sharedID != "file-123" {
		t.Errorf("shared file id = %q, want file-123", fake.sharedID)
	}
}

func TestArchiverUploadWithoutFolder(t *testing.T) {
	fake := &fakeUploader{}
	a, err := NewArchiver(context.Background(), config.ArchiveConfig{}, WithUploader(fake))
	if err != nil {
		t.Fatalf("NewArchiver: %v", err)
	}

	if _, err := a.Upload(context.Background(), "/videos/m1.mp4", "match-m1.mp4"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(fake.createMeta.Parents) != 0 {
		t.Errorf("parents = %v, want none without a configured folder", fake.createMeta.Parents)
	}
}

func TestArchiverUploadCreateFails(t *testing.T) {
	fake := &fakeUploader{createErr: errors.New("quota exceeded")}
	a, _ := NewArchiver(context.Background(), config.ArchiveConfig{}, WithUploader(fake))

	_, err := a.Upload(context.Background(), "/videos/m1.mp4", "match-m1.mp4")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want wrapped create error", err)
	}
}

func TestArchiverUploadShareFails(t *testing.T) {
	fake := &fakeUploader{shareErr: errors.New("permission denied")}
	a, _ := NewArchiver(context.Background(), config.ArchiveConfig{}, WithUploader(fake))

	_, err := a.Upload(context.Background(), "/videos/m1.mp4", "match-m1.mp4")
	if err == nil || !strings.Contains(err.Error(), "share") {
		t.Fatalf("err = %v, want share error", err)
	}
}

func TestNewArchiverMissingCredentials(t *testing.T) {
	_, err := NewArchiver(context.Background(), config.ArchiveConfig{CredentialsFile: "/nonexistent/creds.json"})
	if err == nil {
		t.Fatal("NewArchiver should fail without readable credentials")
	}
}
