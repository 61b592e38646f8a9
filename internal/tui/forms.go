package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
	"github.com/julianstephens/habitkit/internal/validation"
)

var timesOfDay = []string{"Morning", "Afternoon", "Evening", "Throughout the day"}

// NewHabitForm builds the add-habit form bound to in.
func NewHabitForm(in *models.HabitInput) *huh.Form {
	if in.Frequency == "" {
		in.Frequency = models.FrequencyDaily
	}
	if in.Category == "" {
		in.Category = "Health"
	}

	var categories []huh.Option[string]
	for _, c := range constants.CategoryNames {
		categories = append(categories, huh.NewOption(c, c))
	}
	times := []huh.Option[string]{huh.NewOption("Any time", "")}
	for _, t := range timesOfDay {
		times = append(times, huh.NewOption(t, t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g., Drink Water").
				Value(&in.Title).
				Validate(func(s string) error {
					return validation.NotBlank("title", s)
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("e.g., Drink 8 glasses of water daily").
				Value(&in.Description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&in.Category),
		),
		huh.NewGroup(
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&in.Frequency),
			huh.NewSelect[string]().
				Title("Time of day").
				Options(times...).
				Value(&in.TimeOfDay),
			huh.NewInput().
				Title("Reminder (HH:MM, optional)").
				Value(&in.ReminderTime).
				Validate(func(s string) error {
					if s != "" && !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("use HH:MM")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// ApplyHabitForm normalizes the values a completed form left in in.
func ApplyHabitForm(in *models.HabitInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.ReminderTime = strings.TrimSpace(in.ReminderTime)
	in.ReminderEnabled = in.ReminderTime != ""
	if in.Color == "" {
		in.Color = models.CategoryColor(in.Category)
	}
}
