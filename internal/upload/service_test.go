package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	directory := t.TempDir()
	service, err := NewService(ServiceConfig{Directory: directory, PublicURL: "/uploads"})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, directory
}

func buildFileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write([]byte("image-bytes-" + name)); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	request, err := http.NewRequest(http.MethodPost, "/upload/images", &body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	if err := request.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	return request.MultipartForm.File["files"]
}

func TestNewServiceRequiresDirectory(t *testing.T) {
	if _, err := NewService(ServiceConfig{}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestStoreAllPersistsFilesUnderPublicURL(t *testing.T) {
	service, directory := newTestService(t)

	stored, err := service.StoreAll(buildFileHeaders(t, "photo.jpg", "scan.PNG"))
	if err != nil {
		t.Fatalf("failed to store files: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored files, got %d", len(stored))
	}

	for _, file := range stored {
		if !strings.HasPrefix(file.URL, "/uploads/") {
			t.Fatalf("expected public url prefix, got %q", file.URL)
		}
		name := strings.TrimPrefix(file.URL, "/uploads/")
		if _, err := os.Stat(filepath.Join(directory, name)); err != nil {
			t.Fatalf("expected stored file on disk: %v", err)
		}
	}
	if !strings.HasSuffix(stored[1].URL, ".png") {
		t.Fatalf("expected lowercased extension, got %q", stored[1].URL)
	}
}

func TestStoreAllRejectsEmptyRequest(t *testing.T) {
	service, _ := newTestService(t)
	if _, err := service.StoreAll(nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected no files error, got %v", err)
	}
}

func TestStoreAllRejectsUnsupportedTypeAndRemovesOrphans(t *testing.T) {
	service, directory := newTestService(t)

	_, err := service.StoreAll(buildFileHeaders(t, "photo.jpg", "payload.exe"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected orphaned files removed, found %d entries", len(entries))
	}
}
