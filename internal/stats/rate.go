package stats

import (
	"math"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

const day = 24 * time.Hour

// CompletionRate returns the percentage of days since start on which the
// habit was completed, capped at 100. A start at or after now yields 0.
func CompletionRate(completedDates []string, start, now time.Time) int {
	daysSinceStart := ceilDays(now.Sub(start))
	if daysSinceStart <= 0 {
		return 0
	}
	rate := math.Round(100 * float64(len(uniqueSorted(completedDates))) / float64(daysSinceStart))
	return int(math.Min(100, rate))
}

// UserCompletionRate is the profile-level rate: total completions over a
// fixed 30-day window per habit. It is intentionally not tied to elapsed time.
func UserCompletionRate(habits []models.Habit) int {
	if len(habits) == 0 {
		return 0
	}
	total := 0
	for _, h := range habits {
		total += len(h.CompletedDates)
	}
	possible := len(habits) * constants.UserRateWindowDays
	return int(math.Round(100 * float64(total) / float64(possible)))
}

// MaxStreak returns the highest cached streak across habits, 0 when empty.
func MaxStreak(habits []models.Habit) int {
	maxStreak := 0
	for _, h := range habits {
		if h.StreakCount > maxStreak {
			maxStreak = h.StreakCount
		}
	}
	return maxStreak
}

// WindowRate returns the share of the days-long window ending today that
// was completed, as a rounded percentage.
func WindowRate(completedDates []string, today string, days int) int {
	window, err := utils.LastNDays(today, days)
	if err != nil || len(window) == 0 {
		return 0
	}
	done := 0
	set := toSet(completedDates)
	for _, d := range window {
		if _, ok := set[d]; ok {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(window))))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

func toSet(days []string) map[string]struct{} {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}
