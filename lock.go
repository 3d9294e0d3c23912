package mcc134

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LockScope selects what a lock guards.
type LockScope int

const (
	// BusScope guards a single transfer on the shared SPI bus.
	BusScope LockScope = iota
	// BoardScope guards a multi-transfer sequence directed at one board.
	BoardScope
)

// Locker serializes access to the SPI bus and to each board.
//
// Within a process the locks are channel semaphores. When a lock directory is
// set, each acquisition also takes an exclusive flock on a file in that
// directory so that other processes driving the same stack are excluded as
// well. A board lock must always be taken before the bus lock, never the
// other way round.
type Locker struct {
	timeout time.Duration
	dir     string
	bus     chan struct{}
	boards  [MaxBoards]chan struct{}
}

// NewLocker returns a Locker that gives up after timeout. An empty dir
// disables the lock files.
func NewLocker(dir string, timeout time.Duration) *Locker {
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	l := &Locker{
		timeout: timeout,
		dir:     dir,
		bus:     make(chan struct{}, 1),
	}
	for i := range l.boards {
		l.boards[i] = make(chan struct{}, 1)
	}
	return l
}

// Token is a held lock.
type Token struct {
	once sync.Once
	sem  chan struct{}
	file *os.File
}

// Acquire takes the lock for scope. addr is ignored for BusScope.
func (l *Locker) Acquire(scope LockScope, addr uint8) (*Token, error) {
	var sem chan struct{}
	var name string
	switch scope {
	case BusScope:
		sem = l.bus
		name = ".mcc_spi_lockfile"
	case BoardScope:
		if addr >= MaxBoards {
			return nil, ErrBadParameter
		}
		sem = l.boards[addr]
		name = fmt.Sprintf(".mcc_hat_lockfile_%d", addr)
	default:
		return nil, ErrBadParameter
	}

	deadline := time.Now().Add(l.timeout)
	t := time.NewTimer(l.timeout)
	defer t.Stop()
	select {
	case sem <- struct{}{}:
	case <-t.C:
		return nil, ErrLockTimeout
	}

	tok := &Token{sem: sem}
	if l.dir != "" {
		f, err := lockFile(filepath.Join(l.dir, name), deadline)
		if err != nil {
			<-sem
			return nil, err
		}
		tok.file = f
	}
	return tok, nil
}

// Release gives the lock back. Calling it more than once is harmless.
func (t *Token) Release() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		if t.file != nil {
			unlockFile(t.file)
		}
		<-t.sem
	})
}
