package minutes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MeetingType enumerates the fixed meeting categories.
type MeetingType string

const (
	MeetingTypeInternal     MeetingType = "Internal"
	MeetingTypeCoordination MeetingType = "Coordination"
	MeetingTypeBriefing     MeetingType = "Briefing"
	MeetingTypeEvaluation   MeetingType = "Evaluation"
	MeetingTypeExternal     MeetingType = "External"
)

// ErrInvalidMeetingType indicates a value outside the meeting type enumeration.
var ErrInvalidMeetingType = errors.New("minutes: invalid meeting type")

// ParseMeetingType validates raw input against the enumeration. Empty input
// is allowed and returns the zero value, matching records created before the
// field existed.
func ParseMeetingType(rawInput string) (MeetingType, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", nil
	}
	for _, candidate := range []MeetingType{
		MeetingTypeInternal,
		MeetingTypeCoordination,
		MeetingTypeBriefing,
		MeetingTypeEvaluation,
		MeetingTypeExternal,
	} {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMeetingType, rawInput)
}

// MeetingMinute models one recorded meeting.
type MeetingMinute struct {
	ID                   int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Division             string         `gorm:"column:division;size:190;not null"`
	Title                string         `gorm:"column:title;size:320;not null"`
	Speaker              string         `gorm:"column:speaker;size:190;not null"`
	MeetingDate          *time.Time     `gorm:"column:meeting_date"`
	MeetingType          MeetingType    `gorm:"column:meeting_type;size:32"`
	Summary              string         `gorm:"column:summary;type:text"`
	Notes                string         `gorm:"column:notes;type:text;not null"`
	NumberOfParticipants int            `gorm:"column:number_of_participants;not null;default:0"`
	Members              []Member       `gorm:"foreignKey:MinuteID;constraint:OnDelete:CASCADE"`
	Images               []MinuteImage  `gorm:"foreignKey:MinuteID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName provides the explicit table binding for GORM.
func (MeetingMinute) TableName() string {
	return "meeting_minutes"
}

// Member is one participant name on a minute. Position preserves insertion
// order; duplicates are suppressed at input time.
type Member struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	MinuteID int64  `gorm:"column:minute_id;not null;index"`
	Name     string `gorm:"column:name;size:190;not null"`
	Position int    `gorm:"column:position;not null;default:0"`
}

// TableName provides the explicit table binding for GORM.
func (Member) TableName() string {
	return "minute_members"
}

// MinuteImage is one attached image descriptor, independently addressable for
// replace and delete.
type MinuteImage struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	MinuteID int64  `gorm:"column:minute_id;not null;index"`
	URL      string `gorm:"column:url;size:512;not null"`
	Position int    `gorm:"column:position;not null;default:0"`
}

// TableName provides the explicit table binding for GORM.
func (MinuteImage) TableName() string {
	return "minute_images"
}
