//go:build unix

package mcc134

import (
	"os"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

const lockRetry = 10 * time.Microsecond

// lockFile opens path and takes an exclusive flock on it, retrying until
// deadline. The file stays open while the lock is held.
func lockFile(path string, deadline time.Time) (*os.File, error) {
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0666)
		if err == nil {
			// Other users must be able to open lock files left behind by root.
			_ = f.Chmod(0666)
			if err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err == nil {
				return f, nil
			}
			f.Close()
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockRetry)
	}
}

func unlockFile(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return multierr.Append(err, f.Close())
}
