package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoFiles indicates an upload request without any file parts.
	ErrNoFiles = errors.New("upload: no files provided")
	// ErrUnsupportedType indicates a file extension outside the image whitelist.
	ErrUnsupportedType = errors.New("upload: unsupported file type")

	errMissingDirectory = errors.New("upload: storage directory is required")
	noOpLogger          = zap.NewNop()
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// StoredFile describes one persisted upload as returned to clients.
type StoredFile struct {
	URL string `json:"url"`
}

// ServiceConfig bundles the dependencies of the upload service.
type ServiceConfig struct {
	Directory string
	PublicURL string
	Logger    *zap.Logger
}

// Service persists uploaded images to a local directory and hands back URL
// descriptors for later attachment to a minute.
type Service struct {
	directory string
	publicURL string
	logger    *zap.Logger
}

// NewService ensures the storage directory exists and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if strings.TrimSpace(cfg.Directory) == "" {
		return nil, errMissingDirectory
	}
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create directory: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &Service{directory: cfg.Directory, publicURL: publicURL, logger: logger}, nil
}

// Directory returns the local storage path, used to mount static serving.
func (s *Service) Directory() string {
	return s.directory
}

// StoreAll persists every file part under a fresh UUID name. It fails as a
// whole: either all files are stored or none are reported back.
func (s *Service) StoreAll(files []*multipart.FileHeader) ([]StoredFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	stored := make([]StoredFile, 0, len(files))
	written := make([]string, 0, len(files))
	for _, header := range files {
		name, err := s.store(header)
		if err != nil {
			for _, orphan := range written {
				_ = os.Remove(orphan)
			}
			return nil, err
		}
		written = append(written, filepath.Join(s.directory, name))
		stored = append(stored, StoredFile{URL: s.publicURL + "/" + name})
	}

	s.logger.Info("images uploaded", zap.Int("count", len(stored)))
	return stored, nil
}

func (s *Service) store(header *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(path.Ext(header.Filename))
	if !allowedExtensions[extension] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, header.Filename)
	}

	source, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open part: %w", err)
	}
	defer source.Close()

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("upload: id generation: %w", err)
	}
	name := id.String() + extension

	destination, err := os.Create(filepath.Join(s.directory, name))
	if err != nil {
		return "", fmt.Errorf("upload: create file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		_ = os.Remove(destination.Name())
		return "", fmt.Errorf("upload: write file: %w", err)
	}
	return name, nil
}
