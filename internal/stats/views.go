package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// TimeframeSummary aggregates completions over a statistics window.
type TimeframeSummary struct {
	Timeframe   constants.Timeframe
	Start       time.Time
	Completions int
	Possible    int
	Rate        int
}

// DayCount is the number of habits completed on one day.
type DayCount struct {
	Day   string
	Count int
}

// Progress is the completed-today tally over daily habits.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns the tally as a rounded percentage.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
}

// CalendarCell is one slot of a month grid. Blank cells pad the first week.
type CalendarCell struct {
	Day       string
	Date      int
	Blank     bool
	Completed bool
	IsToday   bool
}

// TimeframeStart returns the beginning of a statistics window ending at now.
func TimeframeStart(tf constants.Timeframe, now time.Time) (time.Time, error) {
	switch tf {
	case constants.TimeframeWeek:
		return now.AddDate(0, 0, -7), nil
	case constants.TimeframeMonth:
		return now.AddDate(0, -1, 0), nil
	case constants.TimeframeYear:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid timeframe %q (expected week, month or year)", tf)
	}
}

// TimeframeStats counts completions inside the window and the days each
// habit could have been completed, starting from the later of its creation
// and the window start.
func TimeframeStats(habits []models.Habit, tf constants.Timeframe, now time.Time) (TimeframeSummary, error) {
	start, err := TimeframeStart(tf, now)
	if err != nil {
		return TimeframeSummary{}, err
	}
	startDay := start.Format(constants.DateFormat)

	summary := TimeframeSummary{Timeframe: tf, Start: start}
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if d >= startDay {
				summary.Completions++
			}
		}

		effective := start
		if created := h.Created(); created.After(start) {
			effective = created
		}
		if days := ceilDays(now.Sub(effective)); days > 0 {
			summary.Possible += days
		}
	}

	if summary.Possible > 0 {
		summary.Rate = int(math.Round(100 * float64(summary.Completions) / float64(summary.Possible)))
	}
	return summary, nil
}

// DailyCounts returns how many habits were completed on each day of the
// window ending today.
func DailyCounts(habits []models.Habit, today string, days int) ([]DayCount, error) {
	window, err := utils.LastNDays(today, days)
	if err != nil {
		return nil, err
	}
	counts := make([]DayCount, len(window))
	for i, d := range window {
		counts[i].Day = d
		for _, h := range habits {
			if h.IsCompletedOn(d) {
				counts[i].Count++
			}
		}
	}
	return counts, nil
}

// TopHabits returns up to n habits ordered by total completions.
func TopHabits(habits []models.Habit, n int) []models.Habit {
	sorted := make([]models.Habit, len(habits))
	copy(sorted, habits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].CompletedDates) > len(sorted[j].CompletedDates)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TodayProgress tallies daily habits completed today.
func TodayProgress(habits []models.Habit, today string) Progress {
	var p Progress
	for _, h := range habits {
		if h.Frequency != models.FrequencyDaily {
			continue
		}
		p.Total++
		if h.IsCompletedOn(today) {
			p.Completed++
		}
	}
	return p
}

// MonthCalendar lays out today's month as a Sunday-first grid.
func MonthCalendar(completedDates []string, today string) ([]CalendarCell, error) {
	t, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return nil, err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	done := toSet(completedDates)

	cells := make([]CalendarCell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, CalendarCell{Blank: true})
	}
	for d := 1; d <= daysInMonth; d++ {
		day := first.AddDate(0, 0, d-1).Format(constants.DateFormat)
		_, completed := done[day]
		cells = append(cells, CalendarCell{
			Day:       day,
			Date:      d,
			Completed: completed,
			IsToday:   day == today,
		})
	}
	return cells, nil
}

// Filter returns the habits matching a case-insensitive query over title,
// description and category, narrowed by today's completion state.
func Filter(habits []models.Habit, query string, state constants.FilterState, today string) []models.Habit {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if q != "" &&
			!strings.Contains(strings.ToLower(h.Title), q) &&
			!strings.Contains(strings.ToLower(h.Description), q) &&
			!strings.Contains(strings.ToLower(h.Category), q) {
			continue
		}
		done := h.IsCompletedOn(today)
		switch state {
		case constants.FilterActive:
			if done {
				continue
			}
		case constants.FilterCompleted:
			if !done {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(habits []models.Habit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range habits {
		if h.Category == "" || seen[h.Category] {
			continue
		}
		seen[h.Category] = true
		out = append(out, h.Category)
	}
	return out
}
