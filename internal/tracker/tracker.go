package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Tracker owns the habit collection and the user profile and keeps the
// derived fields and the store in step with every mutation.
type Tracker struct {
	mu    sync.Mutex
	store storage.Provider

	now         func() time.Time
	loc         *time.Location
	newID       func() string
	resetOnLoad bool

	habits []models.Habit
	user   models.User
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{store: store}
	defaults(t)
	for _, opt := range opts {
		opt(t)
	}
	t.habits = []models.Habit{}
	return t
}

// Load reads both keys from the store. A key that is missing or does not
// decode falls back to the sample data; nothing is written until the first mutation.
// The user aggregates are always derived from the loaded habits.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resetOnLoad {
		for _, key := range []string{constants.HabitsKey, constants.UserKey} {
			if err := t.store.Delete(key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
		t.resetOnLoad = false
	}

	now := t.now()

	habits, err := t.readHabits()
	if err != nil {
		return err
	}
	if habits == nil {
		habits = SeedHabits(now, t.loc)
	}

	user, ok, err := t.readUser()
	if err != nil {
		return err
	}
	if !ok {
		user = DefaultUser(now.In(t.loc))
	}
	user.StreakCount = stats.MaxStreak(habits)
	user.CompletionRate = stats.UserCompletionRate(habits)

	t.habits = habits
	t.user = user
	logger.Debug("Loaded habits", "count", len(habits))
	return nil
}

// readHabits returns nil when the stored blob is absent or unusable.
func (t *Tracker) readHabits() ([]models.Habit, error) {
	raw, err := t.store.Get(constants.HabitsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(raw, &habits); err != nil || habits == nil {
		logger.Warn("Stored habits are unreadable, using sample data", "error", err)
		return nil, nil
	}
	for i := range habits {
		if habits[i].CompletedDates == nil {
			habits[i].CompletedDates = []string{}
		}
	}
	return habits, nil
}

func (t *Tracker) readUser() (models.User, bool, error) {
	raw, err := t.store.Get(constants.UserKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to read user: %w", err)
	}

	var user *models.User
	if err := json.Unmarshal(raw, &user); err != nil || user == nil {
		logger.Warn("Stored user is unreadable, using default profile", "error", err)
		return models.User{}, false, nil
	}
	return *user, true, nil
}

// Today is the current calendar day in the tracker's timezone.
func (t *Tracker) Today() string {
	return utils.Today(t.now(), t.loc)
}

// Now is the tracker clock in its timezone.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Habits returns a copy of the collection in stored order.
func (t *Tracker) Habits() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

func (t *Tracker) User() models.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.user
}

func (t *Tracker) GetHabitByID(id string) (models.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexOf(id); i >= 0 {
		return t.habits[i].Clone(), true
	}
	return models.Habit{}, false
}

func (t *Tracker) indexOf(id string) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// AddHabit appends a new habit with a fresh id and no completions.
func (t *Tracker) AddHabit(in models.HabitInput) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := models.Habit{
		ID:              t.newID(),
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		Color:           in.Color,
		Frequency:       in.Frequency,
		TimeOfDay:       in.TimeOfDay,
		CreatedAt:       t.now().In(t.loc).Format(time.RFC3339),
		CompletedDates:  []string{},
		StreakCount:     0,
		ReminderEnabled: in.ReminderEnabled,
		ReminderTime:    in.ReminderTime,
	}
	if h.Color == "" {
		h.Color = models.CategoryColor(h.Category)
	}
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}

	next := append(t.cloneHabits(), h)
	if err := t.commit(next, t.user); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Added habit", "id", h.ID, "title", h.Title)
	return h.Clone(), nil
}

// UpdateHabit replaces the habit with the same id. Unknown ids are ignored.
// The streak is recomputed from the replacement's completed dates.
func (t *Tracker) UpdateHabit(h models.Habit) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(h.ID)
	if i < 0 {
		logger.Debug("Update for unknown habit ignored", "id", h.ID)
		return nil
	}

	next := t.cloneHabits()
	h = h.Clone()
	h.StreakCount = stats.CalculateStreak(h.CompletedDates, t.Today())
	next[i] = h
	return t.commit(next, t.user)
}

// DeleteHabit removes the habit with id. Unknown ids are ignored.
func (t *Tracker) DeleteHabit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		logger.Debug("Delete for unknown habit ignored", "id", id)
		return nil
	}

	next := t.cloneHabits()
	next = append(next[:i], next[i+1:]...)
	if err := t.commit(next, t.user); err != nil {
		return err
	}
	logger.Info("Deleted habit", "id", id)
	return nil
}

// ToggleHabitCompletion adds day to the habit's completions, or removes it
// if already present, then recomputes its streak. Unknown ids are ignored.
func (t *Tracker) ToggleHabitCompletion(id, day string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		logger.Debug("Toggle for unknown habit ignored", "id", id)
		return nil
	}

	next := t.cloneHabits()
	h := &next[i]
	if h.IsCompletedOn(day) {
		kept := make([]string, 0, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if d != day {
				kept = append(kept, d)
			}
		}
		h.CompletedDates = kept
	} else {
		h.CompletedDates = append(h.CompletedDates, day)
	}
	h.StreakCount = stats.CalculateStreak(h.CompletedDates, t.Today())

	if err := t.commit(next, t.user); err != nil {
		return err
	}
	logger.Debug("Toggled habit", "id", id, "day", day, "streak", h.StreakCount)
	return nil
}

// UpdateUser merges the non-nil fields of patch into the profile.
func (t *Tracker) UpdateUser(patch models.UserPatch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.commit(t.cloneHabits(), patch.Apply(t.user))
}

func (t *Tracker) cloneHabits() []models.Habit {
	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// commit derives the user aggregates from habits, persists both keys in one
// batch and only then swaps them in. Callers hold t.mu.
func (t *Tracker) commit(habits []models.Habit, user models.User) error {
	user.StreakCount = stats.MaxStreak(habits)
	user.CompletionRate = stats.UserCompletionRate(habits)

	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to encode habits: %w", err)
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	err = storage.PutAll(t.store, []storage.Entry{
		{Key: constants.HabitsKey, Value: habitsJSON},
		{Key: constants.UserKey, Value: userJSON},
	})
	if err != nil {
		return fmt.Errorf("failed to save habits and user: %w", err)
	}

	t.habits = habits
	t.user = user
	return nil
}
