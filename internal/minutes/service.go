package minutes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested minute does not exist.
	ErrNotFound = errors.New("minutes: not found")
	// ErrImageNotFound indicates the requested image does not belong to the minute.
	ErrImageNotFound = errors.New("minutes: image not found")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// ServiceError wraps a failure with an operation.reason code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code exposes the machine-readable error code.
func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew   = "minutes.service.new"
	opList         = "minutes.list"
	opGet          = "minutes.get"
	opCreate       = "minutes.create"
	opUpdate       = "minutes.update"
	opDelete       = "minutes.delete"
	opAttachImages = "minutes.attach_images"
	opReplaceImage = "minutes.replace_image"
	opRemoveImage  = "minutes.remove_image"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// ServiceConfig bundles the dependencies of the minute service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service owns persistence and lifecycle of meeting minutes.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewService validates the configuration and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, clock: clock, logger: logger}, nil
}

// List returns all minutes with members and images preloaded, oldest first.
func (s *Service) List(ctx context.Context) ([]MeetingMinute, error) {
	var records []MeetingMinute
	err := s.db.WithContext(ctx).
		Preload("Members", memberOrder).
		Preload("Images", imageOrder).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

// Get returns one minute including its nested collections.
func (s *Service) Get(ctx context.Context, id int64) (MeetingMinute, error) {
	var record MeetingMinute
	err := s.db.WithContext(ctx).
		Preload("Members", memberOrder).
		Preload("Images", imageOrder).
		Where("id = ?", id).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MeetingMinute{}, ErrNotFound
	}
	if err != nil {
		s.logError(opGet, "query_failed", err, zap.Int64("minute_id", id))
		return MeetingMinute{}, newServiceError(opGet, "query_failed", err)
	}
	return record, nil
}

// Create persists a new minute from a validated form. Any image URLs on the
// form are attached in the same transaction.
func (s *Service) Create(ctx context.Context, form Form) (MeetingMinute, error) {
	record := MeetingMinute{
		Division:             form.Division,
		Title:                form.Title,
		Speaker:              form.Speaker,
		MeetingDate:          form.MeetingDate,
		MeetingType:          form.MeetingType,
		Summary:              form.Summary,
		Notes:                form.Notes,
		NumberOfParticipants: form.NumberOfParticipants,
		Members:              buildMembers(form.Members),
		Images:               buildImages(form.ImageURLs, 0),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logError(opCreate, "insert_failed", err)
		return MeetingMinute{}, newServiceError(opCreate, "insert_failed", err)
	}
	return s.Get(ctx, record.ID)
}

// Update replaces every editable field of an existing minute (PUT semantics).
// Members are rebuilt from the form; attached images are left untouched and
// managed through the image operations.
func (s *Service) Update(ctx context.Context, id int64, form Form) (MeetingMinute, error) {
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing MeetingMinute
		err := tx.Where("id = ?", id).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return newServiceError(opUpdate, "select_failed", err)
		}

		updates := map[string]interface{}{
			"division":               form.Division,
			"title":                  form.Title,
			"speaker":                form.Speaker,
			"meeting_date":           form.MeetingDate,
			"meeting_type":           form.MeetingType,
			"summary":                form.Summary,
			"notes":                  form.Notes,
			"number_of_participants": form.NumberOfParticipants,
			"updated_at":             s.clock().UTC(),
		}
		if err := tx.Model(&MeetingMinute{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return newServiceError(opUpdate, "update_failed", err)
		}

		if err := tx.Where("minute_id = ?", id).Delete(&Member{}).Error; err != nil {
			return newServiceError(opUpdate, "member_reset_failed", err)
		}
		members := buildMembers(form.Members)
		for i := range members {
			members[i].MinuteID = id
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return newServiceError(opUpdate, "member_insert_failed", err)
			}
		}
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrNotFound) {
			s.logError(opUpdate, "transaction_failed", txErr, zap.Int64("minute_id", id))
		}
		return MeetingMinute{}, txErr
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a minute. The record stays in storage with a deletion
// timestamp and disappears from every query.
func (s *Service) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&MeetingMinute{})
	if result.Error != nil {
		s.logError(opDelete, "delete_failed", result.Error, zap.Int64("minute_id", id))
		return newServiceError(opDelete, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachImages appends already-uploaded image URLs to a minute.
func (s *Service) AttachImages(ctx context.Context, id int64, urls []string) (MeetingMinute, error) {
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing MeetingMinute
		err := tx.Where("id = ?", id).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return newServiceError(opAttachImages, "select_failed", err)
		}

		var maxPosition int
		row := tx.Model(&MinuteImage{}).Where("minute_id = ?", id).Select("COALESCE(MAX(position), -1)").Row()
		if err := row.Scan(&maxPosition); err != nil {
			return newServiceError(opAttachImages, "position_scan_failed", err)
		}

		images := buildImages(urls, maxPosition+1)
		for i := range images {
			images[i].MinuteID = id
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return newServiceError(opAttachImages, "insert_failed", err)
			}
		}
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrNotFound) {
			s.logError(opAttachImages, "transaction_failed", txErr, zap.Int64("minute_id", id))
		}
		return MeetingMinute{}, txErr
	}
	return s.Get(ctx, id)
}

// ReplaceImage swaps the URL of one attached image.
func (s *Service) ReplaceImage(ctx context.Context, id, imageID int64, url string) (MeetingMinute, error) {
	result := s.db.WithContext(ctx).
		Model(&MinuteImage{}).
		Where("id = ? AND minute_id = ?", imageID, id).
		Update("url", url)
	if result.Error != nil {
		s.logError(opReplaceImage, "update_failed", result.Error,
			zap.Int64("minute_id", id), zap.Int64("image_id", imageID))
		return MeetingMinute{}, newServiceError(opReplaceImage, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return MeetingMinute{}, ErrImageNotFound
	}
	return s.Get(ctx, id)
}

// RemoveImage deletes one attached image.
func (s *Service) RemoveImage(ctx context.Context, id, imageID int64) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND minute_id = ?", imageID, id).
		Delete(&MinuteImage{})
	if result.Error != nil {
		s.logError(opRemoveImage, "delete_failed", result.Error,
			zap.Int64("minute_id", id), zap.Int64("image_id", imageID))
		return newServiceError(opRemoveImage, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}

func buildMembers(names []string) []Member {
	deduped := dedupeMembers(names)
	members := make([]Member, 0, len(deduped))
	for i, name := range deduped {
		members = append(members, Member{Name: name, Position: i})
	}
	return members
}

func buildImages(urls []string, startPosition int) []MinuteImage {
	images := make([]MinuteImage, 0, len(urls))
	for i, url := range urls {
		if url == "" {
			continue
		}
		images = append(images, MinuteImage{URL: url, Position: startPosition + i})
	}
	return images
}

func memberOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func imageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("minutes service error", attrs...)
}
