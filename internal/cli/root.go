package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/lockfile"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
	"github.com/julianstephens/habitkit/internal/tracker"
	"github.com/julianstephens/habitkit/internal/utils"
)

// ErrHabitNotFound is returned when a habit reference matches nothing.
var ErrHabitNotFound = errors.New("habit not found")

type Context struct {
	Store    storage.Provider
	Tracker  *tracker.Tracker
	Location *time.Location
	Out      io.Writer
	In       io.Reader

	lock *lockfile.Lock
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Lock takes the writer lock for file-backed stores and rereads the store
// under it, so the mutation that follows starts from the latest saved data.
// Other stores are shared services and need none.
func (c *Context) Lock() error {
	if c.lock != nil || !isFileBacked(c.Store) {
		return nil
	}
	l, err := lockfile.Acquire(c.Store.GetConfigPath())
	if err != nil {
		return err
	}
	c.lock = l

	if c.Tracker == nil {
		return nil
	}
	if err := c.Store.Load(); err != nil {
		c.Unlock()
		return fmt.Errorf("failed to reopen storage: %w", err)
	}
	if err := c.Tracker.Load(); err != nil {
		c.Unlock()
		return err
	}
	return nil
}

func (c *Context) Unlock() {
	if c.lock == nil {
		return
	}
	if err := c.lock.Release(); err != nil {
		logger.Warn("Failed to release lock", "error", err)
	}
	c.lock = nil
}

func isFileBacked(store storage.Provider) bool {
	switch store.(type) {
	case *sqlite.Store, *storage.JSONStore:
		return true
	}
	return false
}

// PerformAutomaticBackup snapshots a SQLite store; failures are only logged.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindHabit resolves ref as an exact id, then as a case-insensitive title.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	if h, ok := c.Tracker.GetHabitByID(ref); ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range c.Tracker.Habits() {
		if strings.EqualFold(strings.TrimSpace(h.Title), strings.TrimSpace(ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are titled %q, use the id instead", len(matches), ref)
	}
}

// ResolveDay returns today when day is empty, otherwise the validated day.
func (c *Context) ResolveDay(day string) (string, error) {
	if day == "" {
		return c.Tracker.Today(), nil
	}
	if !utils.ValidateDay(day) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	return day, nil
}
