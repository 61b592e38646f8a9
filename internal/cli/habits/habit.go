package habits

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/utils"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Show     HabitShowCmd     `cmd:"" help:"Show a habit with its statistics."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit."`
	Toggle   HabitToggleCmd   `cmd:"" help:"Toggle completion of a habit for a day."`
	Today    HabitTodayCmd    `cmd:"" help:"Show today's habit status."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit history (ASCII grid)."`
	Calendar HabitCalendarCmd `cmd:"" help:"Show this month's calendar for a habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" optional:"" help:"Habit title. Omit to fill in a form."`
	Description string `help:"Longer description."`
	Category    string `help:"Category (Health, Fitness, Education, ...)." default:"Health"`
	Color       string `help:"Display color; defaults to the category color."`
	Frequency   string `help:"daily or weekly." enum:"daily,weekly" default:"daily"`
	TimeOfDay   string `name:"time-of-day" help:"When you usually do it (e.g. Morning)."`
	Reminder    string `help:"Reminder time in HH:MM format. Stored only."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	in := models.HabitInput{
		Title:           strings.TrimSpace(c.Title),
		Description:     c.Description,
		Category:        c.Category,
		Color:           c.Color,
		Frequency:       models.Frequency(c.Frequency),
		TimeOfDay:       c.TimeOfDay,
		ReminderEnabled: c.Reminder != "",
		ReminderTime:    c.Reminder,
	}

	if in.Title == "" {
		if err := RunHabitForm(&in); err != nil {
			return err
		}
	}

	if err := in.Validate(); err != nil {
		return err
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	h, err := ctx.Tracker.AddHabit(in)
	if err != nil {
		return err
	}

	ctx.Printf("%s Added habit %s %s\n", cli.SuccessStyle.Render("✓"), h.Title, cli.MutedStyle.Render("("+h.ID+")"))
	return nil
}

type HabitListCmd struct {
	Search   string `short:"s" help:"Case-insensitive search over title, description and category."`
	Status   string `help:"all, active (not done today) or completed." enum:"all,active,completed" default:"all"`
	Category string `help:"Only habits in this category."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	today := ctx.Tracker.Today()
	habits := stats.Filter(ctx.Tracker.Habits(), c.Search, constants.FilterState(c.Status), today)

	if c.Category != "" {
		kept := habits[:0]
		for _, h := range habits {
			if strings.EqualFold(h.Category, c.Category) {
				kept = append(kept, h)
			}
		}
		habits = kept
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		ctx.Printf("%s %s %s  %s  %s\n",
			cli.Check(h.IsCompletedOn(today)),
			cli.Swatch(h.Color),
			h.Title,
			cli.MutedStyle.Render(h.Category),
			cli.MutedStyle.Render(fmt.Sprintf("🔥 %d  id:%s", h.StreakCount, h.ID)),
		)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	rate := stats.CompletionRate(h.CompletedDates, h.Created(), ctx.Tracker.Now())

	ctx.Printf("%s %s\n", cli.Swatch(h.Color), cli.HeaderStyle.Render(h.Title))
	if h.Description != "" {
		ctx.Println(h.Description)
	}
	ctx.Println()
	ctx.Printf("  ID:              %s\n", h.ID)
	ctx.Printf("  Category:        %s\n", h.Category)
	ctx.Printf("  Frequency:       %s\n", h.Frequency)
	if h.TimeOfDay != "" {
		ctx.Printf("  Time of day:     %s\n", h.TimeOfDay)
	}
	ctx.Printf("  Created:         %s\n", utils.FormatForDisplay(utils.Today(h.Created(), ctx.Location)))
	if h.ReminderEnabled && h.ReminderTime != "" {
		ctx.Printf("  Reminder:        %s\n", h.ReminderTime)
	}
	ctx.Printf("  Done today:      %s\n", cli.Check(h.IsCompletedOn(today)))
	ctx.Printf("  Current streak:  %d\n", h.StreakCount)
	ctx.Printf("  Longest streak:  %d\n", stats.LongestStreak(h.CompletedDates))
	ctx.Printf("  Completions:     %d\n", len(h.CompletedDates))
	ctx.Printf("  Completion rate: %s\n", cli.Bar(rate, 20))
	ctx.Printf("  Last 7 days:     %s\n", cli.Bar(stats.WindowRate(h.CompletedDates, today, constants.ProgressWindowDays), 20))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or title."`
	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Category    *string `help:"New category."`
	Color       *string `help:"New display color."`
	Frequency   *string `help:"daily or weekly."`
	TimeOfDay   *string `name:"time-of-day" help:"New time of day."`
	Reminder    *string `help:"Reminder time in HH:MM format; empty disables it."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	changed := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			changed = true
		}
	}
	set(&h.Title, c.Title)
	set(&h.Description, c.Description)
	set(&h.Category, c.Category)
	set(&h.Color, c.Color)
	set(&h.TimeOfDay, c.TimeOfDay)
	if c.Frequency != nil {
		h.Frequency = models.Frequency(*c.Frequency)
		changed = true
	}
	if c.Reminder != nil {
		h.ReminderTime = *c.Reminder
		h.ReminderEnabled = *c.Reminder != ""
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to change; pass at least one field flag")
	}

	if err := h.Validate(); err != nil {
		return err
	}

	if err := ctx.Tracker.UpdateHabit(h); err != nil {
		return err
	}
	ctx.Printf("%s Updated habit %s\n", cli.SuccessStyle.Render("✓"), h.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Printf("Delete %q and its %d completions? [y/N]: ", h.Title, len(h.CompletedDates))
		response, _ := bufio.NewReader(ctx.Stdin()).ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.DeleteHabit(h.ID); err != nil {
		return err
	}
	ctx.Printf("%s Deleted habit %s\n", cli.SuccessStyle.Render("✓"), h.Title)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if day > ctx.Tracker.Today() {
		return fmt.Errorf("cannot complete a habit in the future: %s", day)
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	if err := ctx.Tracker.ToggleHabitCompletion(h.ID, day); err != nil {
		return err
	}

	updated, _ := ctx.Tracker.GetHabitByID(h.ID)
	if updated.IsCompletedOn(day) {
		ctx.Printf("%s Marked %s done for %s (streak %d)\n", cli.SuccessStyle.Render("✓"), h.Title, utils.FormatForDisplay(day), updated.StreakCount)
	} else {
		ctx.Printf("%s Unmarked %s for %s (streak %d)\n", cli.MutedStyle.Render("○"), h.Title, utils.FormatForDisplay(day), updated.StreakCount)
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	today := ctx.Tracker.Today()
	habits := ctx.Tracker.Habits()

	ctx.Println(cli.HeaderStyle.Render("Today · " + utils.FormatForDisplay(today)))
	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with 'habitkit habit add'.")
		return nil
	}

	for _, h := range habits {
		line := fmt.Sprintf("%s %s", cli.Check(h.IsCompletedOn(today)), h.Title)
		if h.TimeOfDay != "" {
			line += " " + cli.MutedStyle.Render("· "+h.TimeOfDay)
		}
		ctx.Println(line)
	}

	progress := stats.TodayProgress(habits, today)
	ctx.Println()
	ctx.Printf("%d of %d daily habits done  %s\n", progress.Completed, progress.Total, cli.Bar(progress.Percent(), 20))
	return nil
}
