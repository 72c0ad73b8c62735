package results

import (
	"time"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"gorm.io/gorm"
)

// MeetingResult models a follow-up target and its outcome, linked to exactly
// one meeting minute. The link is set at creation and never changed by
// updates.
type MeetingResult struct {
	ID                   int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	MinuteID             int64                 `gorm:"column:minute_id;not null;index"`
	Minute               minutes.MeetingMinute `gorm:"foreignKey:MinuteID"`
	Target               string                `gorm:"column:target;type:text;not null"`
	Achievement          int                   `gorm:"column:achievement;not null;default:0"`
	TargetCompletionDate time.Time             `gorm:"column:target_completion_date;not null"`
	Description          string                `gorm:"column:description;type:text;not null"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt            gorm.DeletedAt        `gorm:"column:deleted_at;index"`
}

// TableName provides the explicit table binding for GORM.
func (MeetingResult) TableName() string {
	return "meeting_results"
}
