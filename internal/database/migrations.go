package database

import (
	"errors"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationNormalizeMeetingTypes = "2026-06-18_normalize_meeting_type_casing"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationNormalizeMeetingTypes, apply: normalizeMeetingTypeCasing},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// normalizeMeetingTypeCasing repairs rows written before meeting types were
// parsed through the enumeration.
func normalizeMeetingTypeCasing(db *gorm.DB) error {
	for _, meetingType := range []minutes.MeetingType{
		minutes.MeetingTypeInternal,
		minutes.MeetingTypeCoordination,
		minutes.MeetingTypeBriefing,
		minutes.MeetingTypeEvaluation,
		minutes.MeetingTypeExternal,
	} {
		err := db.Model(&minutes.MeetingMinute{}).
			Where("LOWER(meeting_type) = LOWER(?) AND meeting_type <> ?", string(meetingType), string(meetingType)).
			Update("meeting_type", string(meetingType)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
