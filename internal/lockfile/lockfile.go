package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
)

// ErrLocked means another live habitkit process holds the lock.
var ErrLocked = errors.New("habit data is in use by another habitkit process")

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

// Lock is a held writer lock. The file holds "pid|executable".
type Lock struct {
	path string
	pid  int
}

// Path returns the lock location for a data file.
func Path(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), constants.LockfileName)
}

// Acquire takes the lock next to dataPath, replacing a stale one left by a dead process.
func Acquire(dataPath string) (*Lock, error) {
	path := Path(dataPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := currentPID()
	for attempt := 0; attempt < 2; attempt++ {
		err := write(path, pid)
		if err == nil {
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		owner, alive := inspect(path)
		if alive {
			if owner == pid {
				return &Lock{path: path, pid: pid}, nil
			}
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, owner)
		}
		logger.Warn("Removing stale lock file", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}
	return nil, ErrLocked
}

func write(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "%d|%s", pid, executable(pid))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func executable(pid int) string {
	p, err := findProcessFunc(pid)
	if err != nil || p == nil {
		return constants.AppName
	}
	return p.Executable()
}

// inspect reports the recorded owner and whether it is still the same live program.
// Unreadable or malformed files count as stale.
func inspect(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pidText, exe, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(pidText)
	if err != nil || pid <= 0 {
		return 0, false
	}

	p, err := findProcessFunc(pid)
	if err != nil || p == nil {
		return pid, false
	}
	// PIDs get reused; a different executable means our owner is gone
	if exe != "" && p.Executable() != exe {
		return pid, false
	}
	return pid, true
}

// Release removes the lock file if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	pidText, _, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	if pidText != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
