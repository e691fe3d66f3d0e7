package search

import (
	"testing"
)

func TestOSADistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"report", "report", 0},
		{"repotr", "report", 1}, // adjacent transposition counts as one edit
		{"ca", "abc", 3},        // OSA, not full Damerau-Levenshtein
		{"sunday", "saturday", 3},
	}

	for _, tt := range tests {
		got := osaDistance([]rune(tt.a), []rune(tt.b))
		if got != tt.want {
			t.Errorf("osaDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScoreExactSubstringIsZero(t *testing.T) {
	if got := score("tax", "2024-tax-return.pdf"); got != 0 {
		t.Errorf("substring score = %v, want 0", got)
	}
	if got := score("TAX", "2024-tax-return.pdf"); got != 0 {
		t.Errorf("case-insensitive substring score = %v, want 0", got)
	}
}

func TestScoreIgnoresLocation(t *testing.T) {
	early := score("budget", "budget-notes-for-the-whole-department.xlsx")
	late := score("budget", "notes-for-the-whole-department-budget.xlsx")
	if early != late {
		t.Errorf("location changed score: %v vs %v", early, late)
	}
}

func TestScoreTransposition(t *testing.T) {
	// One swapped pair in a six-rune query: 1/6 ≈ 0.167, well under 0.45.
	got := score("reprot", "report.pdf")
	if got > 0.45 {
		t.Errorf("transposed query score = %v, want <= 0.45", got)
	}
}

func TestScoreUnrelatedNamesExceedThreshold(t *testing.T) {
	got := score("invoice", "zzqxw.bin")
	if got <= 0.45 {
		t.Errorf("unrelated score = %v, want > 0.45", got)
	}
}

func TestScoreShortNameAgainstLongQuery(t *testing.T) {
	// Name shorter than the query still scores, against the whole name.
	got := score("documents", "doc")
	if got <= 0 || got > 1 {
		t.Errorf("score = %v, want in (0, 1]", got)
	}
}
