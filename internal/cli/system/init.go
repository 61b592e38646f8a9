package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete existing habit data before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	_, isSQLite := ctx.Store.(*sqlite.Store)
	_, isJSON := ctx.Store.(*storage.JSONStore)
	fileBacked := isSQLite || isJSON

	exists := false
	if fileBacked {
		if _, err := os.Stat(path); err == nil {
			exists = true
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing data: %w", err)
		}
	}

	if c.Force && exists {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing data: %w", err)
		}
		ctx.Printf("Deleted existing data at: %s\n", path)
		exists = false
	}

	if isJSON && exists {
		ctx.Printf("Storage already initialized at: %s\n", path)
		return nil
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	// shared backends keep their schema; --force only clears the blobs
	if c.Force && !fileBacked {
		for _, key := range []string{constants.HabitsKey, constants.UserKey} {
			if err := ctx.Store.Delete(key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
	}

	ctx.Printf("%s Initialized %s storage at: %s\n", cli.SuccessStyle.Render("✓"), constants.AppName, path)
	return nil
}
