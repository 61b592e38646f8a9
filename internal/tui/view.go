package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case stateForm:
		body = m.form.View()
	case stateConfirmDelete:
		body = m.confirmView()
	case stateStats:
		body = m.statsView()
	default:
		body = m.list.View()
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		"",
		body,
		m.footerView(),
	))
}

func (m Model) headerView() string {
	today := m.tracker.Today()
	p := stats.TodayProgress(m.tracker.Habits(), today)
	return fmt.Sprintf("%s %s  %s",
		titleStyle.Render(constants.AppName),
		mutedStyle.Render(utils.FormatForDisplay(today)),
		mutedStyle.Render(fmt.Sprintf("%d/%d done today", p.Completed, p.Total)),
	)
}

func (m Model) footerView() string {
	var lines []string
	if m.err != "" {
		lines = append(lines, dangerStyle.Render("Error: "+m.err))
	} else if m.status != "" {
		lines = append(lines, doneStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) confirmView() string {
	h := m.pendingDelete
	return panelStyle.Render(fmt.Sprintf("%s\n\n%s\n%s",
		dangerStyle.Render("Delete habit?"),
		fmt.Sprintf("%q and its %d completions will be removed.", h.Title, len(h.CompletedDates)),
		warningStyle.Render("y to confirm · n to cancel"),
	))
}

func (m Model) statsView() string {
	habits := m.tracker.Habits()
	user := m.tracker.User()
	today := m.tracker.Today()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Statistics"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Best streak      %d days\n", user.StreakCount)
	fmt.Fprintf(&b, "Completion rate  %d%%\n", user.CompletionRate)
	if week, err := stats.TimeframeStats(habits, constants.TimeframeWeek, m.tracker.Now()); err == nil {
		fmt.Fprintf(&b, "This week        %d%% (%d/%d)\n", week.Rate, week.Completions, week.Possible)
	}

	if counts, err := stats.DailyCounts(habits, today, constants.ChartWindowDays); err == nil {
		b.WriteString("\n")
		for _, dc := range counts {
			fmt.Fprintf(&b, "%s %s %d\n", mutedStyle.Render(dc.Day[5:]), doneStyle.Render(strings.Repeat("█", dc.Count)), dc.Count)
		}
	}

	if top := stats.TopHabits(habits, constants.TopHabitsCount); len(top) > 0 {
		b.WriteString("\nTop habits\n")
		for i, h := range top {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, h.Title, len(h.CompletedDates))
		}
	}

	if it, ok := m.selected(); ok {
		if cells, err := stats.MonthCalendar(it.Habit.CompletedDates, today); err == nil {
			b.WriteString("\n" + it.Habit.Title + " · " + MonthTitle(today) + "\n")
			b.WriteString(RenderCalendar(cells))
			b.WriteString("\n")
		}
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
