package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/shuheykoyama/tnap/internal/errors"
)

const (
	sessionLayout = "2006_01_02_15_04"
	lockName      = ".tnap.lock"
)

// Session is a per-run output directory guarded by an advisory file lock.
type Session struct {
	Dir  string
	lock *flock.Flock
}

// SessionDir returns the directory a run started at now writes to.
func SessionDir(root string, now time.Time) string {
	return filepath.Join(root, now.Format(sessionLayout))
}

// OpenSession creates the session directory under root for now and locks it.
// A second process targeting the same directory gets a SessionLocked error.
func OpenSession(root string, now time.Time) (*Session, error) {
	dir := SessionDir(root, now)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create session directory %s", dir)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrap(err, "acquire session lock")
	}
	if !ok {
		return nil, errors.NewWithKind(errors.SessionLocked,
			fmt.Sprintf("session directory %s is in use by another tnap process", dir), nil)
	}
	return &Session{Dir: dir, lock: lock}, nil
}

// Close releases the session lock. The directory and its images are kept.
func (s *Session) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return errors.Wrap(err, "release session lock")
	}
	return os.Remove(s.lock.Path())
}
