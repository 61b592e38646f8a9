package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/cli/backups"
	"github.com/julianstephens/habitkit/internal/cli/habits"
	"github.com/julianstephens/habitkit/internal/cli/profile"
	"github.com/julianstephens/habitkit/internal/cli/report"
	"github.com/julianstephens/habitkit/internal/cli/system"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/tracker"
	"github.com/julianstephens/habitkit/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite path, .json file, :memory: or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use HABITKIT_DB_CONNECTION, .pgpass or the OS keyring." env:"HABITKIT_CONFIG" type:"string"`
	Timezone string `help:"IANA timezone used to decide what today is." env:"HABITKIT_TIMEZONE" default:"Local"`
	Debug    bool   `help:"Mirror debug logs to stderr."`

	Init   system.InitCmd  `cmd:"" help:"Initialize habitkit storage."`
	Habit  habits.HabitCmd `cmd:"" help:"Manage habits and daily completions."`
	Stats  report.StatsCmd `cmd:"" help:"Show completion statistics."`
	User   profile.UserCmd `cmd:"" help:"Show or update your profile."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

// commands that manage storage themselves and must not preload it
var noPreload = []string{"init", "doctor", "keyring"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit tracker with streaks and completion stats"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	loc, err := resolveLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	target := cli.ResolveTarget(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(target)}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "timezone", loc.String())

	store, err := cli.OpenStore(target)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Location: loc,
	}

	if needsPreload(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatalf("%v (run '%s init' first)", err, constants.AppName)
		}
		appCtx.Tracker = tracker.New(store, tracker.WithLocation(loc))
		if err := appCtx.Tracker.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// resolveLocation turns the --timezone value into a location.
func resolveLocation(name string) (*time.Location, error) {
	if !utils.ValidateTimezone(name) {
		return nil, fmt.Errorf("invalid timezone %q (expected an IANA name such as Europe/Berlin, or Local)", name)
	}
	return utils.LoadLocation(name)
}

func needsPreload(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	for _, skip := range noPreload {
		if name == skip {
			return false
		}
	}
	return true
}
