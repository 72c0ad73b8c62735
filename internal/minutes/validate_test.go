package minutes

import (
	"errors"
	"testing"
	"time"
)

func validForm() Form {
	date := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	return Form{
		Division:             "Operations",
		Title:                "Quarterly Review",
		MeetingDate:          &date,
		MeetingType:          MeetingTypeInternal,
		Summary:              "1. Reviewed quarterly numbers",
		Notes:                "1. Reviewed quarterly numbers\n2. Assigned follow-ups",
		Speaker:              "Budi Santoso",
		NumberOfParticipants: 5,
		Members:              []string{"Budi Santoso", "Siti Rahayu"},
		ImageURLs:            []string{"/uploads/photo.jpg"},
	}
}

func TestValidateFormAcceptsCompleteForm(t *testing.T) {
	if err := ValidateForm(validForm(), true); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateFormOrderedRules(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Form)
		message string
	}{
		{
			name:    "missing division",
			mutate:  func(f *Form) { f.Division = "  " },
			message: "Division is required.",
		},
		{
			name:    "missing title",
			mutate:  func(f *Form) { f.Title = "" },
			message: "Title is required.",
		},
		{
			name:    "missing notes",
			mutate:  func(f *Form) { f.Notes = "\n\n" },
			message: "Notes cannot be empty.",
		},
		{
			name:    "missing speaker",
			mutate:  func(f *Form) { f.Speaker = "" },
			message: "Speaker is required.",
		},
		{
			name:    "zero participants",
			mutate:  func(f *Form) { f.NumberOfParticipants = 0 },
			message: "Number of participants must be greater than 0.",
		},
		{
			name:    "negative participants",
			mutate:  func(f *Form) { f.NumberOfParticipants = -2 },
			message: "Number of participants must be greater than 0.",
		},
		{
			name:    "no members",
			mutate:  func(f *Form) { f.Members = nil },
			message: "Please add at least one member.",
		},
		{
			name:    "only blank and duplicate members",
			mutate:  func(f *Form) { f.Members = []string{"  ", "", "   "} },
			message: "Please add at least one member.",
		},
		{
			name:    "no images",
			mutate:  func(f *Form) { f.ImageURLs = nil },
			message: "Please upload at least one image.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			form := validForm()
			testCase.mutate(&form)
			err := ValidateForm(form, true)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var ruleErr RuleError
			if !errors.As(err, &ruleErr) {
				t.Fatalf("expected rule error, got %T", err)
			}
			if err.Error() != testCase.message {
				t.Fatalf("expected %q, got %q", testCase.message, err.Error())
			}
		})
	}
}

func TestValidateFormFirstFailureWins(t *testing.T) {
	form := validForm()
	form.Division = ""
	form.Title = ""
	form.Speaker = ""

	err := ValidateForm(form, true)
	if err == nil || err.Error() != "Division is required." {
		t.Fatalf("expected division message first, got %v", err)
	}
}

func TestValidateFormImageRuleDisabled(t *testing.T) {
	form := validForm()
	form.ImageURLs = nil
	if err := ValidateForm(form, false); err != nil {
		t.Fatalf("unexpected validation error with image rule disabled: %v", err)
	}
}

func TestDedupeMembers(t *testing.T) {
	deduped := dedupeMembers([]string{" Budi ", "budi", "Siti", "", "BUDI", "Siti "})
	if len(deduped) != 2 {
		t.Fatalf("expected 2 members, got %d: %v", len(deduped), deduped)
	}
	if deduped[0] != "Budi" || deduped[1] != "Siti" {
		t.Fatalf("expected first-seen order with trimming, got %v", deduped)
	}
}

func TestParseMeetingType(t *testing.T) {
	testCases := []struct {
		input    string
		expected MeetingType
		wantErr  bool
	}{
		{input: "Internal", expected: MeetingTypeInternal},
		{input: "internal", expected: MeetingTypeInternal},
		{input: " COORDINATION ", expected: MeetingTypeCoordination},
		{input: "", expected: ""},
		{input: "   ", expected: ""},
		{input: "Standup", wantErr: true},
	}

	for _, testCase := range testCases {
		parsed, err := ParseMeetingType(testCase.input)
		if testCase.wantErr {
			if !errors.Is(err, ErrInvalidMeetingType) {
				t.Fatalf("input %q: expected invalid meeting type error, got %v", testCase.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", testCase.input, err)
		}
		if parsed != testCase.expected {
			t.Fatalf("input %q: expected %q, got %q", testCase.input, testCase.expected, parsed)
		}
	}
}
