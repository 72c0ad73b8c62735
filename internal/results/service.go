package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested result does not exist.
	ErrNotFound = errors.New("results: not found")
	// ErrMinuteNotFound indicates the linked minute does not exist.
	ErrMinuteNotFound = errors.New("results: linked minute not found")

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
	opServiceNew = "results.service.new"
	opList       = "results.list"
	opGet        = "results.get"
	opCreate     = "results.create"
	opUpdate     = "results.update"
	opDelete     = "results.delete"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// ServiceConfig bundles the dependencies of the result service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service owns persistence and lifecycle of meeting results.
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

// List returns all results with the linked minute preloaded, oldest first.
func (s *Service) List(ctx context.Context) ([]MeetingResult, error) {
	var records []MeetingResult
	err := s.db.WithContext(ctx).
		Preload("Minute").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

// Get returns one result including its linked minute.
func (s *Service) Get(ctx context.Context, id int64) (MeetingResult, error) {
	var record MeetingResult
	err := s.db.WithContext(ctx).
		Preload("Minute").
		Where("id = ?", id).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MeetingResult{}, ErrNotFound
	}
	if err != nil {
		s.logError(opGet, "query_failed", err, zap.Int64("result_id", id))
		return MeetingResult{}, newServiceError(opGet, "query_failed", err)
	}
	return record, nil
}

// Create persists a new result from a validated form. The linked minute must
// exist.
func (s *Service) Create(ctx context.Context, form Form) (MeetingResult, error) {
	completionDate, err := ParseCompletionDate(form.TargetCompletionDate)
	if err != nil {
		return MeetingResult{}, newServiceError(opCreate, "invalid_completion_date", err)
	}

	var record MeetingResult
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var minute minutes.MeetingMinute
		err := tx.Where("id = ?", form.MinuteID).Take(&minute).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMinuteNotFound
		}
		if err != nil {
			return newServiceError(opCreate, "minute_select_failed", err)
		}

		record = MeetingResult{
			MinuteID:             form.MinuteID,
			Target:               form.Target,
			Achievement:          form.Achievement,
			TargetCompletionDate: completionDate,
			Description:          form.Description,
		}
		if err := tx.Create(&record).Error; err != nil {
			return newServiceError(opCreate, "insert_failed", err)
		}
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrMinuteNotFound) {
			s.logError(opCreate, "transaction_failed", txErr, zap.Int64("minute_id", form.MinuteID))
		}
		return MeetingResult{}, txErr
	}
	return s.Get(ctx, record.ID)
}

// Update replaces the editable fields of an existing result. The minute link
// is deliberately not part of the update set.
func (s *Service) Update(ctx context.Context, id int64, form Form) (MeetingResult, error) {
	completionDate, err := ParseCompletionDate(form.TargetCompletionDate)
	if err != nil {
		return MeetingResult{}, newServiceError(opUpdate, "invalid_completion_date", err)
	}

	updates := map[string]interface{}{
		"target":                 form.Target,
		"achievement":            form.Achievement,
		"target_completion_date": completionDate,
		"description":            form.Description,
		"updated_at":             s.clock().UTC(),
	}
	result := s.db.WithContext(ctx).Model(&MeetingResult{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		s.logError(opUpdate, "update_failed", result.Error, zap.Int64("result_id", id))
		return MeetingResult{}, newServiceError(opUpdate, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return MeetingResult{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a result.
func (s *Service) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&MeetingResult{})
	if result.Error != nil {
		s.logError(opDelete, "delete_failed", result.Error, zap.Int64("result_id", id))
		return newServiceError(opDelete, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
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
	s.logger.Error("results service error", attrs...)
}
