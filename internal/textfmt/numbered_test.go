package textfmt

import "testing"

func TestIsNumberedListAcceptsNumberedBlock(t *testing.T) {
	if !IsNumberedList("1. Open meeting\n2. Discuss budget") {
		t.Fatalf("expected numbered block to be detected")
	}
}

func TestIsNumberedListRejectsMixedBlock(t *testing.T) {
	if IsNumberedList("Some notes\n1. not really a list") {
		t.Fatalf("expected mixed block to be plain text")
	}
}

func TestIsNumberedListIgnoresBlankLines(t *testing.T) {
	if !IsNumberedList("1. First\n\n2. Second\n") {
		t.Fatalf("blank lines should not break detection")
	}
}

func TestIsNumberedListRejectsEmptyText(t *testing.T) {
	if IsNumberedList("") {
		t.Fatalf("empty text is not a list")
	}
	if IsNumberedList("   \n\n") {
		t.Fatalf("blank-only text is not a list")
	}
}

func TestIsNumberedListRequiresSpaceAfterPeriod(t *testing.T) {
	if IsNumberedList("1.First\n2.Second") {
		t.Fatalf("missing space after period should not match")
	}
}

func TestListItemsStripsNumbering(t *testing.T) {
	items := ListItems("1. Open meeting\n2. Discuss budget")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != "Open meeting" || items[1] != "Discuss budget" {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestSummarizeTakesFirstLineWithoutNumbering(t *testing.T) {
	got := Summarize("1. Kick off the quarterly review\n2. Assign owners", 0)
	if got != "Kick off the quarterly review" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarizeTruncatesLongLines(t *testing.T) {
	long := "This first line is deliberately much longer than sixty characters so it gets cut"
	got := Summarize(long, 60)
	if len([]rune(got)) != 63 {
		t.Fatalf("expected 60 runes plus ellipsis, got %d (%q)", len([]rune(got)), got)
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	if Summarize("", 60) != "" {
		t.Fatalf("empty text should summarize to empty string")
	}
}
