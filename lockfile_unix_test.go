//go:build unix

package mcc134

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLockFileAcrossLockers(t *testing.T) {
	dir := t.TempDir()
	a := NewLocker(dir, 20*time.Millisecond)
	b := NewLocker(dir, 20*time.Millisecond)

	tok, err := a.Acquire(BoardScope, 5)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".mcc_hat_lockfile_5")); err != nil {
		t.Fatalf("Lock file missing: %v", err)
	}
	if _, err := b.Acquire(BoardScope, 5); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("Second locker got %v", err)
	}

	tok.Release()
	tok2, err := b.Acquire(BoardScope, 5)
	if err != nil {
		t.Fatalf("Lock file not released: %v", err)
	}
	tok2.Release()

	bus, err := a.Acquire(BusScope, 0)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	defer bus.Release()
	if _, err := os.Stat(filepath.Join(dir, ".mcc_spi_lockfile")); err != nil {
		t.Fatalf("Bus lock file missing: %v", err)
	}
}
