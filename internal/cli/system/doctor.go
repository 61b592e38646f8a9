package system

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/lockfile"
	"github.com/julianstephens/habitkit/internal/migration"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/stats"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
	"github.com/julianstephens/habitkit/internal/utils"
	"github.com/julianstephens/habitkit/migrations"
)

type DoctorCmd struct{}

type check struct {
	name     string
	fn       func(ctx *cli.Context) error
	needsDB  bool
	advisory bool
}

var checks = []check{
	{name: "Storage reachable", fn: checkReachable},
	{name: "Schema version", fn: checkSchemaVersion, needsDB: true},
	{name: "Habit data", fn: checkHabits, needsDB: true},
	{name: "User profile", fn: checkUser, needsDB: true},
	{name: "Backups present", fn: checkBackups, advisory: true},
	{name: "Writer lock", fn: checkLock, advisory: true},
	{name: "Clock/timezone", fn: checkClock},
	{name: "OS keyring", fn: checkKeyring, advisory: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	reachable := false
	for i, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("%s %s: SKIPPED (storage not reachable)\n", cli.MutedStyle.Render("⊘"), c.name)
			continue
		}
		err := c.fn(ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), c.name)
			// the first check opens the store
			if i == 0 {
				reachable = true
			}
		case c.advisory:
			ctx.Printf("%s %s: WARNING\n   %v\n", cli.WarningStyle.Render("⚠"), c.name, err)
		default:
			ctx.Printf("%s %s: FAIL\n   Error: %v\n", cli.DangerStyle.Render("✗"), c.name, err)
			failed = true
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if db := dbOf(ctx.Store); db != nil {
		var one int
		if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func dbOf(store storage.Provider) *sql.DB {
	switch s := store.(type) {
	case *sqlite.Store:
		return s.GetDB()
	case *postgres.Store:
		return s.GetDB()
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	var dir string
	var dialect migration.Dialect
	switch ctx.Store.(type) {
	case *sqlite.Store:
		dir, dialect = "sqlite", migration.SQLite
	case *postgres.Store:
		dir, dialect = "postgres", migration.Postgres
	default:
		return nil
	}

	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return err
	}
	runner := migration.NewRunner(dbOf(ctx.Store), sub, dialect)

	current, err := runner.CurrentVersion()
	if err != nil {
		return err
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run '%s init'", current, latest, constants.AppName)
	}
	return runner.Validate()
}

func checkHabits(ctx *cli.Context) error {
	raw, err := ctx.Store.Get(constants.HabitsKey)
	if err != nil {
		// sample data is shown until the first change
		return ignoreMissing(err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(raw, &habits); err != nil {
		return fmt.Errorf("stored habits do not decode (sample data will be shown): %w", err)
	}

	today := utils.Today(time.Now(), ctx.Location)
	if ctx.Tracker != nil {
		today = ctx.Tracker.Today()
	}

	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if h.ID == "" {
			return fmt.Errorf("habit %q has no id", h.Title)
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		seen[h.ID] = true
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		if want := stats.CalculateStreak(h.CompletedDates, today); want != h.StreakCount {
			return fmt.Errorf("habit %s caches streak %d but its completions give %d; toggle any day to refresh", h.ID, h.StreakCount, want)
		}
	}
	return nil
}

func checkUser(ctx *cli.Context) error {
	raw, err := ctx.Store.Get(constants.UserKey)
	if err != nil {
		return ignoreMissing(err)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return fmt.Errorf("stored profile does not decode (default profile will be shown): %w", err)
	}
	if u.JoinedDate != "" {
		if _, err := time.Parse(time.RFC3339, u.JoinedDate); err != nil {
			return fmt.Errorf("invalid joinedDate %q", u.JoinedDate)
		}
	}
	return nil
}

func ignoreMissing(err error) error {
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	return err
}

func checkBackups(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	list, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no backups yet, run '%s backup create'", constants.AppName)
	}
	if age := time.Since(list[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	switch ctx.Store.(type) {
	case *sqlite.Store, *storage.JSONStore:
	default:
		return nil
	}
	path := lockfile.Path(ctx.Store.GetConfigPath())
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("lock file present at %s; another %s may be running", path, constants.AppName)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	if ctx.Location == nil {
		return fmt.Errorf("no timezone configured")
	}
	now := time.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
