package stats

import (
	"sort"

	"github.com/julianstephens/habitkit/internal/utils"
)

// CalculateStreak returns the number of consecutive completed days ending
// with the most recent completion. The streak is 0 unless today itself is
// completed; yesterday does not keep a streak alive.
func CalculateStreak(completedDates []string, today string) int {
	days := uniqueSorted(completedDates)
	if len(days) == 0 {
		return 0
	}

	i := sort.SearchStrings(days, today)
	if i == len(days) || days[i] != today {
		return 0
	}

	streak := 1
	for j := len(days) - 1; j > 0; j-- {
		diff, err := utils.DayDiff(days[j-1], days[j])
		if err != nil || diff != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(completedDates []string) int {
	days := uniqueSorted(completedDates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		diff, err := utils.DayDiff(days[i-1], days[i])
		if err == nil && diff == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// uniqueSorted returns the distinct days in ascending order. Zero-padded
// ISO days sort chronologically as strings.
func uniqueSorted(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
