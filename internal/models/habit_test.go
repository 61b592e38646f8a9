package models

import (
	"strings"
	"testing"
)

func TestHabitValidate(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		wantErr string
	}{
		{
			name:  "valid daily habit",
			habit: Habit{Title: "Read", Frequency: FrequencyDaily},
		},
		{
			name:  "valid weekly habit with reminder",
			habit: Habit{Title: "Call home", Frequency: FrequencyWeekly, ReminderEnabled: true, ReminderTime: "18:30"},
		},
		{
			name:    "empty title",
			habit:   Habit{Title: "  ", Frequency: FrequencyDaily},
			wantErr: "title cannot be empty",
		},
		{
			name:    "unknown frequency",
			habit:   Habit{Title: "Read", Frequency: "monthly"},
			wantErr: "invalid frequency",
		},
		{
			name:    "bad reminder time",
			habit:   Habit{Title: "Read", Frequency: FrequencyDaily, ReminderTime: "25:00"},
			wantErr: "invalid reminder time",
		},
		{
			name:    "bad completed date",
			habit:   Habit{Title: "Read", Frequency: FrequencyDaily, CompletedDates: []string{"2024-1-5"}},
			wantErr: "invalid completed date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.habit.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHabitClone(t *testing.T) {
	h := Habit{ID: "1", CompletedDates: []string{"2024-01-01"}}
	c := h.Clone()
	c.CompletedDates[0] = "2024-02-02"
	if h.CompletedDates[0] != "2024-01-01" {
		t.Errorf("clone shares completed dates with original")
	}
}

func TestHabitCreated(t *testing.T) {
	h := Habit{CreatedAt: "2024-03-01T10:00:00Z"}
	if got := h.Created(); got.IsZero() || got.Day() != 1 {
		t.Errorf("Created() = %v, want March 1", got)
	}
	h.CreatedAt = "yesterday"
	if !h.Created().IsZero() {
		t.Errorf("Created() on malformed value should be zero")
	}
}

func TestCategoryColor(t *testing.T) {
	if got := CategoryColor("Fitness"); got != "#10B981" {
		t.Errorf("CategoryColor(Fitness) = %q", got)
	}
	if got := CategoryColor("Gardening"); got != "#64748B" {
		t.Errorf("CategoryColor(Gardening) = %q, want default", got)
	}
}

func TestUserPatchApply(t *testing.T) {
	name := "Ada"
	u := User{Name: "Old", Email: "old@example.com", StreakCount: 4}
	got := UserPatch{Name: &name}.Apply(u)
	if got.Name != "Ada" {
		t.Errorf("expected name Ada, got %q", got.Name)
	}
	if got.Email != "old@example.com" || got.StreakCount != 4 {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if !(UserPatch{}).IsEmpty() {
		t.Errorf("zero patch should be empty")
	}
}
