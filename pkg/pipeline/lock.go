package pipeline

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrLocked is returned when another run holds the skill root lock.
var ErrLocked = errors.New("another skillport run holds the lock")

// LockPath is the lock file guarding skillRoot. It sits beside the skill
// root so the reset phase never deletes it.
func LockPath(skillRoot string) string {
	return filepath.Clean(skillRoot) + ".lock"
}

type skillLock struct {
	flock *flock.Flock
	path  string
}

// acquireLock takes the lock without blocking. Generation takes it
// exclusively; drift checks take it shared.
func acquireLock(skillRoot string, shared bool) (*skillLock, error) {
	path := LockPath(skillRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for %s", path)
	}

	l := &skillLock{flock: flock.New(path), path: path}

	var acquired bool
	var err error
	if shared {
		acquired, err = l.flock.TryRLock()
	} else {
		acquired, err = l.flock.TryLock()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to try lock on %s", path)
	}
	if !acquired {
		return nil, errors.Wrap(ErrLocked, path)
	}

	return l, nil
}

func (l *skillLock) release() error {
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrapf(err, "failed to release lock on %s", l.path)
	}
	return nil
}
