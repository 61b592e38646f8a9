package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/validation"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// Habit represents a recurring practice to track
type Habit struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"notblank"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Color           string    `json:"color"`
	Frequency       Frequency `json:"frequency" validate:"oneof=daily weekly"`
	TimeOfDay       string    `json:"timeOfDay,omitempty"`
	CreatedAt       string    `json:"createdAt"`                                   // RFC3339 timestamp
	CompletedDates  []string  `json:"completedDates" validate:"dive,calendar_day"` // YYYY-MM-DD format
	StreakCount     int       `json:"streakCount"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	ReminderTime    string    `json:"reminderTime,omitempty" validate:"omitempty,hhmm"` // HH:MM format
}

// HabitInput holds the fields a caller supplies when adding a habit.
// The tracker assigns the id, creation time and completion state.
type HabitInput struct {
	Title           string `validate:"notblank"`
	Description     string
	Category        string
	Color           string
	Frequency       Frequency `validate:"oneof=daily weekly"`
	TimeOfDay       string
	ReminderEnabled bool
	ReminderTime    string `validate:"omitempty,hhmm"`
}

// Clone returns a copy that shares no slice storage with h.
func (h Habit) Clone() Habit {
	c := h
	c.CompletedDates = make([]string, len(h.CompletedDates))
	copy(c.CompletedDates, h.CompletedDates)
	return c
}

// IsCompletedOn reports whether day is among the completed dates.
func (h Habit) IsCompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// Created parses CreatedAt. A zero time is returned when it is malformed.
func (h Habit) Created() time.Time {
	t, err := time.Parse(time.RFC3339, h.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Validate checks the user-editable fields of a habit.
func (h Habit) Validate() error {
	return describe(validation.Validate.Struct(h))
}

// Validate checks the fields of a habit about to be added.
func (in HabitInput) Validate() error {
	return describe(validation.Validate.Struct(in))
}

// describe turns the first field error into a message for the CLI.
func describe(err error) error {
	fe := validation.FirstError(err)
	if fe == nil {
		return err
	}
	switch fe.Tag() {
	case "notblank":
		return fmt.Errorf("title cannot be empty")
	case "oneof":
		return fmt.Errorf("invalid frequency %q (expected daily or weekly)", fe.Value())
	case "hhmm":
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", fe.Value())
	case "calendar_day":
		return fmt.Errorf("invalid completed date %q (expected YYYY-MM-DD)", fe.Value())
	}
	return fmt.Errorf("invalid %s: %s", fe.Field(), fe.Tag())
}

// CategoryColor returns the display color for a category.
func CategoryColor(category string) string {
	if c, ok := constants.CategoryColors[category]; ok {
		return c
	}
	return constants.DefaultCategoryColor
}
