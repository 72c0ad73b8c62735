package minutes

import (
	"strings"
	"time"
)

// Form carries the editable fields of a minute as submitted by a client.
type Form struct {
	Division             string
	Title                string
	MeetingDate          *time.Time
	MeetingType          MeetingType
	Summary              string
	Notes                string
	Speaker              string
	NumberOfParticipants int
	Members              []string
	ImageURLs            []string
}

// RuleError is a single human-readable validation message. Rules run in a
// fixed order and the first failure wins.
type RuleError string

// Error returns the message shown to the user.
func (e RuleError) Error() string {
	return string(e)
}

const (
	msgDivisionRequired     = "Division is required."
	msgTitleRequired        = "Title is required."
	msgNotesRequired        = "Notes cannot be empty."
	msgSpeakerRequired      = "Speaker is required."
	msgParticipantsPositive = "Number of participants must be greater than 0."
	msgMemberRequired       = "Please add at least one member."
	msgImageRequired        = "Please upload at least one image."
)

// ValidateForm checks the form against the minute rules in order. The image
// rule is a deployment choice and only applies when requireImages is set.
// The result is idempotent for identical input.
func ValidateForm(form Form, requireImages bool) error {
	if strings.TrimSpace(form.Division) == "" {
		return RuleError(msgDivisionRequired)
	}
	if strings.TrimSpace(form.Title) == "" {
		return RuleError(msgTitleRequired)
	}
	if strings.TrimSpace(form.Notes) == "" {
		return RuleError(msgNotesRequired)
	}
	if strings.TrimSpace(form.Speaker) == "" {
		return RuleError(msgSpeakerRequired)
	}
	if form.NumberOfParticipants <= 0 {
		return RuleError(msgParticipantsPositive)
	}
	if len(dedupeMembers(form.Members)) == 0 {
		return RuleError(msgMemberRequired)
	}
	if requireImages && len(form.ImageURLs) == 0 {
		return RuleError(msgImageRequired)
	}
	return nil
}

// dedupeMembers drops blank and repeated names while preserving first-seen
// order.
func dedupeMembers(names []string) []string {
	seen := make(map[string]bool, len(names))
	deduped := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, trimmed)
	}
	return deduped
}
