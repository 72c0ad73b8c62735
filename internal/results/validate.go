package results

import (
	"strings"
	"time"
)

// completionDateLayout matches the YYYY-MM-DD value of a date input.
const completionDateLayout = "2006-01-02"

// Form carries the editable fields of a result as submitted by a client.
// MinuteID participates in validation only at creation; updates never relink.
type Form struct {
	MinuteID             int64
	Target               string
	Achievement          int
	TargetCompletionDate string
	Description          string
}

// RuleError is a single human-readable validation message. Rules run in a
// fixed order and the first failure wins.
type RuleError string

// Error returns the message shown to the user.
func (e RuleError) Error() string {
	return string(e)
}

const (
	msgMinuteRequired      = "Please select a meeting minute."
	msgTargetRequired      = "Target is required."
	msgTargetTooShort      = "Target should be at least 3 characters."
	msgAchievementRange    = "Achievement must be between 0 and 100%."
	msgCompletionRequired  = "Target completion date is required."
	msgCompletionNotADate  = "Target completion date is not a valid date."
	msgDescriptionRequired = "Description is required."
)

// ValidateForm checks the form against the result rules in order. Out-of-range
// achievements are rejected, never clamped.
func ValidateForm(form Form) error {
	if form.MinuteID <= 0 {
		return RuleError(msgMinuteRequired)
	}
	target := strings.TrimSpace(form.Target)
	if target == "" {
		return RuleError(msgTargetRequired)
	}
	if len([]rune(target)) < 3 {
		return RuleError(msgTargetTooShort)
	}
	if form.Achievement < 0 || form.Achievement > 100 {
		return RuleError(msgAchievementRange)
	}
	if strings.TrimSpace(form.TargetCompletionDate) == "" {
		return RuleError(msgCompletionRequired)
	}
	if _, err := ParseCompletionDate(form.TargetCompletionDate); err != nil {
		return RuleError(msgCompletionNotADate)
	}
	if strings.TrimSpace(form.Description) == "" {
		return RuleError(msgDescriptionRequired)
	}
	return nil
}

// ParseCompletionDate parses a YYYY-MM-DD completion date at UTC midnight.
func ParseCompletionDate(value string) (time.Time, error) {
	return time.ParseInLocation(completionDateLayout, strings.TrimSpace(value), time.UTC)
}
