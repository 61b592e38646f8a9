package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/lockfile"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
	"github.com/julianstephens/habitkit/internal/tracker"
)

func TestResolveDay(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	tr := tracker.New(store,
		tracker.WithClock(func() time.Time { return time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC) }),
		tracker.WithLocation(time.FixedZone("UTC+2", 2*60*60)),
	)
	ctx := &Context{Store: store, Tracker: tr}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2024-06-16", false},
		{"2024-02-29", "2024-02-29", false},
		{"2024-02-30", "", true},
		{"yesterday", "", true},
	}
	for _, tt := range tests {
		got, err := ctx.ResolveDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLockFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitkit.db")
	ctx := &Context{Store: sqlite.NewStore(path)}

	if err := ctx.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if err := ctx.Lock(); err != nil {
		t.Fatalf("second Lock should reuse the held lock: %v", err)
	}
	if _, err := os.Stat(lockfile.Path(path)); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	ctx.Unlock()
	if _, err := os.Stat(lockfile.Path(path)); !os.IsNotExist(err) {
		t.Errorf("lock file not removed: %v", err)
	}
	ctx.Unlock()
}

func TestLockSharedStore(t *testing.T) {
	ctx := &Context{Store: storage.NewMemoryStore()}
	if err := ctx.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if ctx.lock != nil {
		t.Error("memory store should not take a lock")
	}
	ctx.Unlock()
}

func openContext(t *testing.T, path string) *Context {
	t.Helper()
	store := sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	tr := tracker.New(store,
		tracker.WithClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }),
		tracker.WithLocation(time.UTC),
	)
	if err := tr.Load(); err != nil {
		t.Fatalf("failed to load tracker: %v", err)
	}
	return &Context{Store: store, Tracker: tr}
}

func TestLockRereadsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitkit.db")
	seed := sqlite.NewStore(path)
	if err := seed.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	seed.Close()

	// Both processes load before either writes.
	first := openContext(t, path)
	second := openContext(t, path)

	for _, step := range []struct {
		ctx *Context
		id  string
	}{{first, "4"}, {second, "3"}} {
		if err := step.ctx.Lock(); err != nil {
			t.Fatalf("Lock failed: %v", err)
		}
		err := step.ctx.Tracker.ToggleHabitCompletion(step.id, "2024-06-15")
		step.ctx.Unlock()
		if err != nil {
			t.Fatalf("toggle %s failed: %v", step.id, err)
		}
	}

	fresh := openContext(t, path)
	for _, id := range []string{"3", "4"} {
		h, ok := fresh.Tracker.GetHabitByID(id)
		if !ok || !h.IsCompletedOn("2024-06-15") {
			t.Errorf("habit %s lost its completion: %+v", id, h)
		}
	}
}
