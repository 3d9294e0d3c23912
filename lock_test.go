package mcc134

import (
	"errors"
	"testing"
	"time"
)

func TestLockTimeout(t *testing.T) {
	l := NewLocker("", 20*time.Millisecond)
	tok, err := l.Acquire(BoardScope, 2)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if _, err := l.Acquire(BoardScope, 2); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("Second board lock got %v", err)
	}

	// Other boards and the bus are independent.
	other, err := l.Acquire(BoardScope, 3)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	other.Release()
	bus, err := l.Acquire(BusScope, 0)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	bus.Release()

	tok.Release()
	tok.Release()
	again, err := l.Acquire(BoardScope, 2)
	if err != nil {
		t.Fatalf("Lock not released: %v", err)
	}
	again.Release()
}

func TestLockBadParameter(t *testing.T) {
	l := NewLocker("", time.Second)
	if _, err := l.Acquire(BoardScope, MaxBoards); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("Got %v", err)
	}
	if _, err := l.Acquire(LockScope(7), 0); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("Got %v", err)
	}
}

func TestLockWaits(t *testing.T) {
	l := NewLocker("", time.Second)
	tok, err := l.Acquire(BusScope, 0)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		tok.Release()
	}()
	next, err := l.Acquire(BusScope, 0)
	if err != nil {
		t.Fatalf("Waiting lock got %v", err)
	}
	next.Release()
}
