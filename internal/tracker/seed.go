package tracker

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
)

const (
	defaultUserName   = "Sahil Singh"
	defaultUserEmail  = "ss7227@srmist.edu.in"
	defaultUserAvatar = "https://images.pexels.com/photos/614810/pexels-photo-614810.jpeg?auto=compress&cs=tinysrgb&w=150"
)

// SeedHabits returns the sample collection shown before anything is saved.
// Dates are relative to now; the streak counts are stored as listed.
func SeedHabits(now time.Time, loc *time.Location) []models.Habit {
	now = now.In(loc)
	ago := func(days int) string {
		return now.AddDate(0, 0, -days).Format(time.RFC3339)
	}
	day := func(days int) string {
		return now.AddDate(0, 0, -days).Format(constants.DateFormat)
	}

	return []models.Habit{
		{
			ID:              "1",
			Title:           "Drink Water",
			Description:     "Drink 8 glasses of water daily",
			Category:        "Health",
			Color:           "#3B82F6",
			Frequency:       models.FrequencyDaily,
			TimeOfDay:       "Throughout the day",
			CreatedAt:       ago(10),
			CompletedDates:  []string{day(0), day(1), day(2)},
			StreakCount:     3,
			ReminderEnabled: true,
			ReminderTime:    "09:00",
		},
		{
			ID:              "2",
			Title:           "Exercise",
			Description:     "Do a 30-minute workout",
			Category:        "Fitness",
			Color:           "#10B981",
			Frequency:       models.FrequencyDaily,
			TimeOfDay:       "Morning",
			CreatedAt:       ago(20),
			CompletedDates:  []string{day(2), day(1)},
			StreakCount:     2,
			ReminderEnabled: true,
			ReminderTime:    "07:00",
		},
		{
			ID:              "3",
			Title:           "Read",
			Description:     "Read for 20 minutes",
			Category:        "Education",
			Color:           "#8B5CF6",
			Frequency:       models.FrequencyDaily,
			TimeOfDay:       "Evening",
			CreatedAt:       ago(15),
			CompletedDates:  []string{day(1)},
			StreakCount:     1,
			ReminderEnabled: false,
		},
		{
			ID:              "4",
			Title:           "Meditate",
			Description:     "Meditate for 10 minutes",
			Category:        "Mindfulness",
			Color:           "#EC4899",
			Frequency:       models.FrequencyDaily,
			TimeOfDay:       "Morning",
			CreatedAt:       ago(5),
			CompletedDates:  []string{},
			StreakCount:     0,
			ReminderEnabled: true,
			ReminderTime:    "06:30",
		},
	}
}

// DefaultUser is the profile used until one is saved. Derived fields start at zero.
func DefaultUser(now time.Time) models.User {
	return models.User{
		Name:       defaultUserName,
		Email:      defaultUserEmail,
		Avatar:     defaultUserAvatar,
		JoinedDate: now.Format(time.RFC3339),
	}
}
