package profile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/tracker"
)

func newContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	tr := tracker.New(store,
		tracker.WithClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }),
		tracker.WithLocation(time.UTC),
	)
	if err := tr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Tracker: tr, Location: time.UTC, Out: out}, out
}

func ptr(s string) *string { return &s }

func TestUserShow(t *testing.T) {
	ctx, out := newContext(t)

	if err := (&UserShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, want := range []string{"Sahil Singh", "Joined:          2024-06-15", "Best streak:     3 days"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestUserUpdate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     UserUpdateCmd
		wantErr bool
	}{
		{"empty patch", UserUpdateCmd{}, true},
		{"blank name", UserUpdateCmd{Name: ptr("  ")}, true},
		{"bad email", UserUpdateCmd{Email: ptr("nobody")}, true},
		{"relative avatar", UserUpdateCmd{Avatar: ptr("me.png")}, true},
		{"name only", UserUpdateCmd{Name: ptr("Ada")}, false},
		{"all fields", UserUpdateCmd{Name: ptr("Ada"), Email: ptr("ada@example.com"), Avatar: ptr("https://example.com/a.png")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newContext(t)
			before := ctx.Tracker.User()

			err := tt.cmd.Run(ctx)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if ctx.Tracker.User() != before {
					t.Error("profile changed on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			u := ctx.Tracker.User()
			if u.Name != "Ada" {
				t.Errorf("Name = %q", u.Name)
			}
			if tt.cmd.Email == nil && u.Email != before.Email {
				t.Errorf("Email changed to %q", u.Email)
			}
			// saving recomputes the aggregates from the seed habits
			if u.StreakCount != 3 || u.CompletionRate != 5 {
				t.Errorf("aggregates = %d/%d, want 3/5", u.StreakCount, u.CompletionRate)
			}
		})
	}
}
