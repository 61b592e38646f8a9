package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const today = "2024-06-15"

func newStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

func newTracker(t *testing.T, store storage.Provider, opts ...Option) *Tracker {
	t.Helper()
	ids := 0
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("new-%d", ids)
		}),
	}
	tr := New(store, append(base, opts...)...)
	if err := tr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tr
}

func storedHabits(t *testing.T, store storage.Provider) []models.Habit {
	t.Helper()
	raw, err := store.Get(constants.HabitsKey)
	if err != nil {
		t.Fatalf("failed to read stored habits: %v", err)
	}
	var habits []models.Habit
	if err := json.Unmarshal(raw, &habits); err != nil {
		t.Fatalf("stored habits are not valid JSON: %v", err)
	}
	return habits
}

func storedUser(t *testing.T, store storage.Provider) models.User {
	t.Helper()
	raw, err := store.Get(constants.UserKey)
	if err != nil {
		t.Fatalf("failed to read stored user: %v", err)
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		t.Fatalf("stored user is not valid JSON: %v", err)
	}
	return user
}

func sortedCopy(days []string) []string {
	out := append([]string(nil), days...)
	sort.Strings(out)
	return out
}

func TestLoadEmptyStoreUsesSampleData(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	habits := tr.Habits()
	if len(habits) != 4 {
		t.Fatalf("expected 4 sample habits, got %d", len(habits))
	}
	wantStreaks := map[string]int{"1": 3, "2": 2, "3": 1, "4": 0}
	for i, h := range habits {
		if h.ID != fmt.Sprint(i+1) {
			t.Errorf("habit %d has id %q", i, h.ID)
		}
		if h.StreakCount != wantStreaks[h.ID] {
			t.Errorf("habit %s streak = %d, want %d", h.ID, h.StreakCount, wantStreaks[h.ID])
		}
	}
	water := habits[0]
	if got := sortedCopy(water.CompletedDates); fmt.Sprint(got) != "[2024-06-13 2024-06-14 2024-06-15]" {
		t.Errorf("Drink Water completions = %v", got)
	}
	if water.CreatedAt != "2024-06-05T12:00:00Z" {
		t.Errorf("Drink Water createdAt = %s", water.CreatedAt)
	}

	user := tr.User()
	if user.Name != "Sahil Singh" || user.Email != "ss7227@srmist.edu.in" {
		t.Errorf("unexpected default user %+v", user)
	}
	if user.StreakCount != 3 || user.CompletionRate != 5 {
		t.Errorf("derived user fields should reflect the sample habits, got %+v", user)
	}
	if user.JoinedDate != "2024-06-15T12:00:00Z" {
		t.Errorf("joinedDate = %s", user.JoinedDate)
	}

	if _, err := store.Get(constants.HabitsKey); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Load should not persist sample data, got %v", err)
	}
}

func TestToggleUpdatesStreakAndUserStats(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	if err := tr.ToggleHabitCompletion("4", today); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	h, ok := tr.GetHabitByID("4")
	if !ok {
		t.Fatal("habit 4 missing")
	}
	if len(h.CompletedDates) != 1 || h.CompletedDates[0] != today {
		t.Errorf("completedDates = %v", h.CompletedDates)
	}
	if h.StreakCount != 1 {
		t.Errorf("streak = %d, want 1", h.StreakCount)
	}

	user := tr.User()
	if user.StreakCount != 3 {
		t.Errorf("user streak = %d, want 3", user.StreakCount)
	}
	// (3+2+1+1) * 100 / (4*30) = 5.83
	if user.CompletionRate != 6 {
		t.Errorf("user completion rate = %d, want 6", user.CompletionRate)
	}

	if got := storedUser(t, store); got.StreakCount != 3 || got.CompletionRate != 6 {
		t.Errorf("persisted user = %+v", got)
	}
	if got := storedHabits(t, store); len(got) != 4 || got[3].StreakCount != 1 {
		t.Errorf("persisted habits = %+v", got)
	}
}

func TestToggleTwiceRestoresCompletions(t *testing.T) {
	tr := newTracker(t, newStore(t))
	before, _ := tr.GetHabitByID("1")

	if err := tr.ToggleHabitCompletion("1", today); err != nil {
		t.Fatal(err)
	}
	mid, _ := tr.GetHabitByID("1")
	if mid.IsCompletedOn(today) {
		t.Error("today should be removed by the first toggle")
	}
	if mid.StreakCount != 0 {
		t.Errorf("streak without today = %d, want 0", mid.StreakCount)
	}

	if err := tr.ToggleHabitCompletion("1", today); err != nil {
		t.Fatal(err)
	}
	after, _ := tr.GetHabitByID("1")
	if fmt.Sprint(sortedCopy(after.CompletedDates)) != fmt.Sprint(sortedCopy(before.CompletedDates)) {
		t.Errorf("completions = %v, want %v", after.CompletedDates, before.CompletedDates)
	}
	if after.StreakCount != 3 {
		t.Errorf("streak = %d, want 3", after.StreakCount)
	}
}

func TestTogglePastDayKeepsTodayStreak(t *testing.T) {
	tr := newTracker(t, newStore(t))

	// Read: completed yesterday only
	if err := tr.ToggleHabitCompletion("3", today); err != nil {
		t.Fatal(err)
	}
	if err := tr.ToggleHabitCompletion("3", "2024-06-13"); err != nil {
		t.Fatal(err)
	}
	h, _ := tr.GetHabitByID("3")
	if h.StreakCount != 3 {
		t.Errorf("streak = %d, want 3", h.StreakCount)
	}
}

func TestAddHabit(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	h, err := tr.AddHabit(models.HabitInput{
		Title:     "Journal",
		Category:  "Productivity",
		Frequency: models.FrequencyDaily,
	})
	if err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	if h.ID != "new-1" {
		t.Errorf("id = %q", h.ID)
	}
	if h.CreatedAt != "2024-06-15T12:00:00Z" {
		t.Errorf("createdAt = %s", h.CreatedAt)
	}
	if h.CompletedDates == nil || len(h.CompletedDates) != 0 || h.StreakCount != 0 {
		t.Errorf("new habit should start empty, got %+v", h)
	}
	if h.Color != "#F59E0B" {
		t.Errorf("color should default to category color, got %s", h.Color)
	}

	habits := tr.Habits()
	if len(habits) != 5 || habits[4].ID != "new-1" {
		t.Fatalf("habit should be appended, got %d habits", len(habits))
	}

	user := tr.User()
	// (3+2+1+0+0) * 100 / (5*30) = 4
	if user.StreakCount != 3 || user.CompletionRate != 4 {
		t.Errorf("user = %+v", user)
	}

	stored := storedHabits(t, store)
	if len(stored) != 5 {
		t.Errorf("persisted %d habits, want 5", len(stored))
	}
	// empty completions persist as an array, not null
	raw, _ := store.Get(constants.HabitsKey)
	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatal(err)
	}
	if _, ok := generic[4]["completedDates"].([]any); !ok {
		t.Errorf("completedDates persisted as %v", generic[4]["completedDates"])
	}
}

func TestAddHabitDefaults(t *testing.T) {
	tr := newTracker(t, newStore(t))

	h, err := tr.AddHabit(models.HabitInput{Title: "Call family", Category: "Unknown", Color: "#000000"})
	if err != nil {
		t.Fatal(err)
	}
	if h.Color != "#000000" {
		t.Errorf("explicit color overwritten: %s", h.Color)
	}
	if h.Frequency != models.FrequencyDaily {
		t.Errorf("frequency = %q, want daily", h.Frequency)
	}
}

func TestAddHabitUsesUniqueIDs(t *testing.T) {
	tr := New(newStore(t), WithClock(func() time.Time { return testNow }))
	if err := tr.Load(); err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		h, err := tr.AddHabit(models.HabitInput{Title: "h"})
		if err != nil {
			t.Fatal(err)
		}
		if seen[h.ID] {
			t.Fatalf("duplicate id %s", h.ID)
		}
		seen[h.ID] = true
	}
}

func TestUpdateHabit(t *testing.T) {
	tr := newTracker(t, newStore(t))

	h, _ := tr.GetHabitByID("2")
	h.Title = "Run"
	h.StreakCount = 99
	h.CompletedDates = append(h.CompletedDates, today)
	if err := tr.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, _ := tr.GetHabitByID("2")
	if got.Title != "Run" {
		t.Errorf("title = %q", got.Title)
	}
	if got.StreakCount != 3 {
		t.Errorf("streak should be recomputed, got %d", got.StreakCount)
	}
	if tr.Habits()[1].ID != "2" {
		t.Error("update should keep the habit in place")
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)
	before := tr.Habits()

	if err := tr.ToggleHabitCompletion("missing", today); err != nil {
		t.Errorf("toggle: %v", err)
	}
	if err := tr.UpdateHabit(models.Habit{ID: "missing", Title: "x"}); err != nil {
		t.Errorf("update: %v", err)
	}
	if err := tr.DeleteHabit("missing"); err != nil {
		t.Errorf("delete: %v", err)
	}
	if _, ok := tr.GetHabitByID("missing"); ok {
		t.Error("GetHabitByID should report missing")
	}

	if fmt.Sprint(tr.Habits()) != fmt.Sprint(before) {
		t.Error("habits changed after no-op operations")
	}
	if _, err := store.Get(constants.HabitsKey); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("no-op operations should not persist, got %v", err)
	}
}

func TestDeleteHabit(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	if err := tr.DeleteHabit("1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, ok := tr.GetHabitByID("1"); ok {
		t.Error("habit 1 should be gone")
	}
	habits := tr.Habits()
	if len(habits) != 3 || habits[0].ID != "2" {
		t.Errorf("unexpected habits after delete: %v", habits)
	}
	// (2+1+0) * 100 / (3*30) = 3.33
	if u := tr.User(); u.StreakCount != 2 || u.CompletionRate != 3 {
		t.Errorf("user = %+v", u)
	}
}

func TestDeleteAllHabitsZeroesUserStats(t *testing.T) {
	tr := newTracker(t, newStore(t))
	for _, id := range []string{"1", "2", "3", "4"} {
		if err := tr.DeleteHabit(id); err != nil {
			t.Fatal(err)
		}
	}
	if u := tr.User(); u.StreakCount != 0 || u.CompletionRate != 0 {
		t.Errorf("user = %+v", u)
	}
}

func TestUpdateUser(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	name := "Ada"
	if err := tr.UpdateUser(models.UserPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	u := tr.User()
	if u.Name != "Ada" || u.Email != "ss7227@srmist.edu.in" {
		t.Errorf("shallow merge failed: %+v", u)
	}
	// (3+2+1+0) * 100 / (4*30) = 5
	if u.StreakCount != 3 || u.CompletionRate != 5 {
		t.Errorf("derived fields not recomputed: %+v", u)
	}
	if storedUser(t, store).Name != "Ada" {
		t.Error("user not persisted")
	}
}

func TestReloadRoundTrip(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)
	if err := tr.ToggleHabitCompletion("4", today); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddHabit(models.HabitInput{Title: "Stretch"}); err != nil {
		t.Fatal(err)
	}

	reloaded := newTracker(t, store)
	if fmt.Sprint(reloaded.Habits()) != fmt.Sprint(tr.Habits()) {
		t.Errorf("habits differ after reload:\n%v\n%v", reloaded.Habits(), tr.Habits())
	}
	if reloaded.User() != tr.User() {
		t.Errorf("user differs after reload: %+v vs %+v", reloaded.User(), tr.User())
	}
}

func TestLoadMalformedData(t *testing.T) {
	tests := []struct {
		name       string
		habits     string
		user       string
		wantHabits int
		wantUser   string
	}{
		{name: "garbage habits", habits: `{not json`, user: `{"name":"Ada"}`, wantHabits: 4, wantUser: "Ada"},
		{name: "null habits", habits: `null`, user: `{"name":"Ada"}`, wantHabits: 4, wantUser: "Ada"},
		{name: "object instead of array", habits: `{"id":"1"}`, user: `{"name":"Ada"}`, wantHabits: 4, wantUser: "Ada"},
		{name: "garbage user", habits: `[]`, user: `[1,2]`, wantHabits: 0, wantUser: "Sahil Singh"},
		{name: "null user", habits: `[{"id":"x","title":"t"}]`, user: `null`, wantHabits: 1, wantUser: "Sahil Singh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			if err := store.Put(constants.HabitsKey, []byte(tt.habits)); err != nil {
				t.Fatal(err)
			}
			if err := store.Put(constants.UserKey, []byte(tt.user)); err != nil {
				t.Fatal(err)
			}

			tr := newTracker(t, store)
			if got := len(tr.Habits()); got != tt.wantHabits {
				t.Errorf("habits = %d, want %d", got, tt.wantHabits)
			}
			if got := tr.User().Name; got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestLoadNormalizesNullCompletions(t *testing.T) {
	store := newStore(t)
	if err := store.Put(constants.HabitsKey, []byte(`[{"id":"x","title":"t","completedDates":null}]`)); err != nil {
		t.Fatal(err)
	}
	tr := newTracker(t, store)
	h, _ := tr.GetHabitByID("x")
	if h.CompletedDates == nil {
		t.Error("completedDates should be an empty slice")
	}
}

func TestResetOnLoad(t *testing.T) {
	store := newStore(t)
	if err := store.Put(constants.HabitsKey, []byte(`[{"id":"x","title":"kept"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(constants.UserKey, []byte(`{"name":"Ada"}`)); err != nil {
		t.Fatal(err)
	}

	kept := newTracker(t, store)
	if len(kept.Habits()) != 1 {
		t.Fatalf("stored data should load by default")
	}

	reset := newTracker(t, store, WithResetOnLoad(true))
	if len(reset.Habits()) != 4 || reset.User().Name != "Sahil Singh" {
		t.Errorf("reset should fall back to sample data")
	}
	if _, err := store.Get(constants.HabitsKey); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("habits key should be cleared, got %v", err)
	}
}

type failingStore struct {
	*storage.MemoryStore
	failPut bool
	failGet bool
}

func (s *failingStore) Put(key string, value []byte) error {
	if s.failPut {
		return errors.New("disk full")
	}
	return s.MemoryStore.Put(key, value)
}

func (s *failingStore) PutBatch(entries []storage.Entry) error {
	if s.failPut {
		return errors.New("disk full")
	}
	return s.MemoryStore.PutBatch(entries)
}

func (s *failingStore) Get(key string) ([]byte, error) {
	if s.failGet {
		return nil, errors.New("connection reset")
	}
	return s.MemoryStore.Get(key)
}

func TestPersistenceFailureLeavesStateUntouched(t *testing.T) {
	store := &failingStore{MemoryStore: newStore(t)}
	tr := newTracker(t, store)
	store.failPut = true

	if _, err := tr.AddHabit(models.HabitInput{Title: "x"}); err == nil {
		t.Error("AddHabit should surface the storage error")
	}
	if err := tr.ToggleHabitCompletion("4", today); err == nil {
		t.Error("toggle should surface the storage error")
	}
	if len(tr.Habits()) != 4 {
		t.Errorf("failed add should not change the collection")
	}
	if h, _ := tr.GetHabitByID("4"); len(h.CompletedDates) != 0 {
		t.Errorf("failed toggle should not change completions: %v", h.CompletedDates)
	}
}

func TestLoadDerivesUserAggregates(t *testing.T) {
	store := newStore(t)
	stale := `{"name":"Ada","email":"ada@example.com","joinedDate":"2024-01-01T00:00:00Z","streakCount":99,"completionRate":42}`
	if err := store.Put(constants.UserKey, []byte(stale)); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	tr := newTracker(t, store)
	user := tr.User()
	if user.Name != "Ada" {
		t.Errorf("stored profile not loaded: %+v", user)
	}
	if user.StreakCount != 3 || user.CompletionRate != 5 {
		t.Errorf("stale aggregates survived Load: streak=%d rate=%d", user.StreakCount, user.CompletionRate)
	}

	raw, _ := store.Get(constants.UserKey)
	if string(raw) != stale {
		t.Errorf("Load should not write, stored user = %s", raw)
	}
}

func TestCommitWritesBothKeysOrNeither(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitkit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tr := newTracker(t, store)
	if err := tr.ToggleHabitCompletion("4", today); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	before, err := store.Get(constants.HabitsKey)
	if err != nil {
		t.Fatalf("failed to read habits: %v", err)
	}

	_, err = store.GetDB().Exec(`
		CREATE TRIGGER reject_user BEFORE UPDATE ON kv WHEN NEW.key = 'user'
		BEGIN SELECT RAISE(ABORT, 'user writes rejected'); END`)
	if err != nil {
		t.Fatalf("failed to create trigger: %v", err)
	}

	if err := tr.ToggleHabitCompletion("3", today); err == nil {
		t.Fatal("toggle should fail when the user write is rejected")
	}
	after, err := store.Get(constants.HabitsKey)
	if err != nil {
		t.Fatalf("failed to read habits: %v", err)
	}
	if string(after) != string(before) {
		t.Error("habits were saved although the user write failed")
	}
	if h, _ := tr.GetHabitByID("3"); h.IsCompletedOn(today) {
		t.Error("failed toggle changed in-memory state")
	}
}

func TestLoadSurfacesStorageErrors(t *testing.T) {
	store := &failingStore{MemoryStore: newStore(t), failGet: true}
	tr := New(store)
	if err := tr.Load(); err == nil {
		t.Error("Load should fail when the store cannot be read")
	}
}

func TestReturnedHabitsAreCopies(t *testing.T) {
	tr := newTracker(t, newStore(t))

	h, _ := tr.GetHabitByID("1")
	h.CompletedDates[0] = "1999-01-01"
	habits := tr.Habits()
	habits[0].Title = "changed"

	again, _ := tr.GetHabitByID("1")
	if again.IsCompletedOn("1999-01-01") || again.Title == "changed" {
		t.Error("caller mutations leaked into tracker state")
	}
}

func TestConcurrentToggles(t *testing.T) {
	store := newStore(t)
	tr := newTracker(t, store)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day := start.AddDate(0, 0, i).Format(constants.DateFormat)
			if err := tr.ToggleHabitCompletion("4", day); err != nil {
				t.Errorf("toggle %s: %v", day, err)
			}
		}(i)
	}
	wg.Wait()

	h, _ := tr.GetHabitByID("4")
	if len(h.CompletedDates) != 50 {
		t.Errorf("expected 50 completions, got %d", len(h.CompletedDates))
	}
	if got := storedHabits(t, store)[3]; len(got.CompletedDates) != 50 {
		t.Errorf("persisted %d completions, want 50", len(got.CompletedDates))
	}
}
