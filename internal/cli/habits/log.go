package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/tui"
	"github.com/julianstephens/habitkit/internal/utils"
)

type HabitLogCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or title. Omit for all habits."`
	Days  int    `help:"Number of days to show." default:"14"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}

	habits := ctx.Tracker.Habits()
	if c.Habit != "" {
		h, err := ctx.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	days, err := utils.LastNDays(ctx.Tracker.Today(), c.Days)
	if err != nil {
		return err
	}

	width := 0
	for _, h := range habits {
		if len(h.Title) > width {
			width = len(h.Title)
		}
	}

	ctx.Printf("%-*s  %s → %s\n", width, "", utils.FormatForDisplay(days[0]), utils.FormatForDisplay(days[len(days)-1]))
	for _, h := range habits {
		var row strings.Builder
		for _, d := range days {
			if h.IsCompletedOn(d) {
				row.WriteString(cli.SuccessStyle.Render("■"))
			} else {
				row.WriteString(cli.MutedStyle.Render("·"))
			}
		}
		ctx.Printf("%-*s  %s  %s\n", width, h.Title, row.String(), cli.MutedStyle.Render(fmt.Sprintf("%d-day rate %d%%", c.Days, stats.WindowRate(h.CompletedDates, days[len(days)-1], c.Days))))
	}
	return nil
}

type HabitCalendarCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitCalendarCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	cells, err := stats.MonthCalendar(h.CompletedDates, today)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(h.Title + " · " + tui.MonthTitle(today)))
	ctx.Println(tui.RenderCalendar(cells))
	return nil
}

// RunHabitForm prompts for the fields of a new habit.
func RunHabitForm(in *models.HabitInput) error {
	form := tui.NewHabitForm(in)
	if err := form.Run(); err != nil {
		return fmt.Errorf("habit form aborted: %w", err)
	}
	tui.ApplyHabitForm(in)
	return nil
}
