package report

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/utils"
)

type StatsCmd struct {
	Timeframe string `help:"week, month or year." enum:"week,month,year" default:"week"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	habits := ctx.Tracker.Habits()
	user := ctx.Tracker.User()
	today := ctx.Tracker.Today()

	summary, err := stats.TimeframeStats(habits, constants.Timeframe(c.Timeframe), ctx.Tracker.Now())
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render("Statistics · this " + c.Timeframe))
	ctx.Printf("  Habits:          %d\n", len(habits))
	ctx.Printf("  Best streak:     %d days\n", user.StreakCount)
	ctx.Printf("  Overall rate:    %s\n", cli.Bar(user.CompletionRate, 20))
	ctx.Printf("  Since %s: %d of %d possible check-ins\n",
		utils.FormatForDisplay(utils.Today(summary.Start, ctx.Location)), summary.Completions, summary.Possible)
	ctx.Printf("  Timeframe rate:  %s\n", cli.Bar(summary.Rate, 20))
	ctx.Println()

	counts, err := stats.DailyCounts(habits, today, constants.ChartWindowDays)
	if err != nil {
		return err
	}
	ctx.Println(cli.HeaderStyle.Render("Last 7 days"))
	for _, dc := range counts {
		ctx.Printf("  %s  %s %d\n", dc.Day, cli.SuccessStyle.Render(strings.Repeat("█", dc.Count)), dc.Count)
	}
	ctx.Println()

	top := stats.TopHabits(habits, constants.TopHabitsCount)
	if len(top) > 0 {
		ctx.Println(cli.HeaderStyle.Render("Top habits"))
		for i, h := range top {
			ctx.Printf("  %d. %s %s %s\n", i+1, cli.Swatch(h.Color), h.Title,
				cli.MutedStyle.Render(fmt.Sprintf("%d completions", len(h.CompletedDates))))
		}
		ctx.Println()
	}

	if cats := stats.Categories(habits); len(cats) > 0 {
		ctx.Printf("Categories: %s\n", strings.Join(cats, ", "))
	}
	return nil
}
