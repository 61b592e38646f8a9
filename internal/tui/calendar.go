package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/stats"
)

// MonthTitle renders "June 2024" for a calendar day.
func MonthTitle(today string) string {
	t, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return today
	}
	return t.Format("January 2006")
}

// RenderCalendar draws a Sunday-first month grid.
func RenderCalendar(cells []stats.CalendarCell) string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(" Su Mo Tu We Th Fr Sa"))
	for i, c := range cells {
		if i%7 == 0 {
			b.WriteString("\n")
		}
		switch {
		case c.Blank:
			b.WriteString("   ")
		case c.Completed:
			b.WriteString(doneStyle.Render(fmt.Sprintf("%3d", c.Date)))
		case c.IsToday:
			b.WriteString(todayStyle.Render(fmt.Sprintf("%3d", c.Date)))
		default:
			b.WriteString(fmt.Sprintf("%3d", c.Date))
		}
	}
	return b.String()
}
