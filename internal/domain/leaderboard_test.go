package domain

import "testing"

func pct(v float64) *float64 { return &v }

func TestTopNOrdering(t *testing.T) {
	results := []RoundResult{
		{ID: "a", TotalScore: 5, Percentage: pct(50), Timestamp: "2025-01-02T10:00:00.000000Z", Theme: "Histoire"},
		{ID: "b", TotalScore: 7, Percentage: pct(70), Timestamp: "2025-01-03T10:00:00.000000Z", Theme: "Histoire"},
		{ID: "c", TotalScore: 5, Percentage: pct(100), Timestamp: "2025-01-04T10:00:00.000000Z", Theme: "Sport"},
		{ID: "d", TotalScore: 5, Percentage: pct(50), Timestamp: "2025-01-01T10:00:00.000000Z", Theme: "Histoire"},
		{ID: "e", TotalScore: 5, Timestamp: "2024-12-01T10:00:00", Theme: "Histoire"},
	}

	got := TopN(results, 10, "")
	want := []string{"b", "c", "d", "a", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s (%+v)", i, id, got[i].ID, got)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].TotalScore < got[i].TotalScore {
			t.Fatalf("score order violated at %d", i)
		}
	}
}

func TestTopNFiltersAndLimits(t *testing.T) {
	results := []RoundResult{
		{ID: "a", TotalScore: 1, Theme: "Histoire"},
		{ID: "b", TotalScore: 3, Theme: "Sport"},
		{ID: "c", TotalScore: 2, Theme: "Histoire"},
	}

	tests := []struct {
		name  string
		n     int
		theme string
		want  []string
	}{
		{"all", 10, "", []string{"b", "c", "a"}},
		{"limit", 2, "", []string{"b", "c"}},
		{"theme exact", 10, "Histoire", []string{"c", "a"}},
		{"theme is case sensitive", 10, "histoire", nil},
		{"zero", 0, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopN(results, tt.n, tt.theme)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestTopNKeepsInputOrderOnFullTie(t *testing.T) {
	results := []RoundResult{
		{ID: "first", TotalScore: 4, Percentage: pct(40), Timestamp: "2025-01-01T10:00:00.000000Z"},
		{ID: "second", TotalScore: 4, Percentage: pct(40), Timestamp: "2025-01-01T10:00:00.000000Z"},
	}
	got := TopN(results, 2, "")
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Fatalf("expected stable order, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{10, 10, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestRoundResultValidate(t *testing.T) {
	ok := RoundResult{QuestionCount: 3, CorrectCount: 2, IncorrectCount: 1, TotalScore: 2}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid result, got %v", err)
	}
	bad := RoundResult{QuestionCount: 3, CorrectCount: 2, IncorrectCount: 2}
	if err := bad.Validate(); err != ErrInvalidResult {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}
