//go:build !unix

package mcc134

import (
	"os"
	"time"
)

// Lock files are only supported where flock is available.
func lockFile(path string, deadline time.Time) (*os.File, error) {
	return nil, nil
}

func unlockFile(f *os.File) error {
	return f.Close()
}
