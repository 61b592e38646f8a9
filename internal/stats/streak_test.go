package stats

import "testing"

func TestCalculateStreak(t *testing.T) {
	const today = "2024-06-15"

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "no completions", dates: nil, want: 0},
		{name: "only today", dates: []string{today}, want: 1},
		{name: "three consecutive days", dates: []string{"2024-06-13", "2024-06-14", today}, want: 3},
		{name: "unsorted input", dates: []string{today, "2024-06-13", "2024-06-14"}, want: 3},
		{name: "today missing", dates: []string{"2024-06-13", "2024-06-14"}, want: 0},
		{name: "gap before today", dates: []string{"2024-06-13", today}, want: 1},
		{name: "duplicates do not double count", dates: []string{today, today, "2024-06-14", "2024-06-14"}, want: 2},
		{name: "older run ignored after gap", dates: []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-14", today}, want: 2},
		{name: "stale run", dates: []string{"2024-05-30", "2024-05-31", "2024-06-01"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.dates, today); got != tt.want {
				t.Errorf("CalculateStreak(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}

func TestCalculateStreakMonthBoundary(t *testing.T) {
	dates := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if got := CalculateStreak(dates, "2024-03-01"); got != 3 {
		t.Errorf("CalculateStreak() = %d, want 3", got)
	}
}

func TestCalculateStreakDoesNotMutateInput(t *testing.T) {
	dates := []string{"2024-06-15", "2024-06-14"}
	CalculateStreak(dates, "2024-06-15")
	if dates[0] != "2024-06-15" || dates[1] != "2024-06-14" {
		t.Errorf("input slice was reordered: %v", dates)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "empty", dates: nil, want: 0},
		{name: "single", dates: []string{"2024-01-01"}, want: 1},
		{name: "older run is longest", dates: []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"}, want: 3},
		{name: "duplicates", dates: []string{"2024-01-01", "2024-01-01", "2024-01-02"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.dates); got != tt.want {
				t.Errorf("LongestStreak(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}
