package results

import (
	"errors"
	"testing"
	"time"
)

func validResultForm() Form {
	return Form{
		MinuteID:             1,
		Target:               "Increase coverage",
		Achievement:          75,
		TargetCompletionDate: "2026-06-30",
		Description:          "Coverage campaign across branches",
	}
}

func TestValidateFormAcceptsCompleteForm(t *testing.T) {
	if err := ValidateForm(validResultForm()); err != nil {
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
			name:    "missing minute",
			mutate:  func(f *Form) { f.MinuteID = 0 },
			message: "Please select a meeting minute.",
		},
		{
			name:    "missing target",
			mutate:  func(f *Form) { f.Target = "   " },
			message: "Target is required.",
		},
		{
			name:    "target too short",
			mutate:  func(f *Form) { f.Target = "ab" },
			message: "Target should be at least 3 characters.",
		},
		{
			name:    "achievement below range",
			mutate:  func(f *Form) { f.Achievement = -1 },
			message: "Achievement must be between 0 and 100%.",
		},
		{
			name:    "achievement above range",
			mutate:  func(f *Form) { f.Achievement = 101 },
			message: "Achievement must be between 0 and 100%.",
		},
		{
			name:    "missing completion date",
			mutate:  func(f *Form) { f.TargetCompletionDate = "" },
			message: "Target completion date is required.",
		},
		{
			name:    "unparseable completion date",
			mutate:  func(f *Form) { f.TargetCompletionDate = "30/06/2026" },
			message: "Target completion date is not a valid date.",
		},
		{
			name:    "missing description",
			mutate:  func(f *Form) { f.Description = "  " },
			message: "Description is required.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			form := validResultForm()
			testCase.mutate(&form)
			err := ValidateForm(form)
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

func TestValidateFormAchievementBoundariesAllowed(t *testing.T) {
	for _, achievement := range []int{0, 100} {
		form := validResultForm()
		form.Achievement = achievement
		if err := ValidateForm(form); err != nil {
			t.Fatalf("achievement %d: unexpected error: %v", achievement, err)
		}
	}
}

func TestValidateFormFirstFailureWins(t *testing.T) {
	form := validResultForm()
	form.Target = ""
	form.Description = ""

	err := ValidateForm(form)
	if err == nil || err.Error() != "Target is required." {
		t.Fatalf("expected target message first, got %v", err)
	}
}

func TestParseCompletionDate(t *testing.T) {
	parsed, err := ParseCompletionDate(" 2026-06-30 ")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	expected := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, parsed)
	}

	if _, err := ParseCompletionDate("not-a-date"); err == nil {
		t.Fatalf("expected parse error for invalid input")
	}
}
