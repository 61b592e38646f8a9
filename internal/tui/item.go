package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/models"
)

// Item is a habit row in the list, with its status for today.
type Item struct {
	Habit     models.Habit
	DoneToday bool
}

func (i Item) Title() string {
	mark := "○"
	if i.DoneToday {
		mark = "✓"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Habit.Color)).Render("●")
	return fmt.Sprintf("%s %s %s", mark, swatch, i.Habit.Title)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · streak %d", i.Habit.Category, i.Habit.StreakCount)
	if i.Habit.TimeOfDay != "" {
		desc += " · " + i.Habit.TimeOfDay
	}
	if i.DoneToday {
		return desc + " · completed today"
	}
	return desc
}

func (i Item) FilterValue() string {
	return i.Habit.Title + " " + i.Habit.Category + " " + i.Habit.Description
}

func itemsFor(habits []models.Habit, today string) []Item {
	items := make([]Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, DoneToday: h.IsCompletedOn(today)}
	}
	return items
}
