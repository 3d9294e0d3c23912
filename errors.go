package mcc134

import (
	"errors"
	"fmt"
)

var (
	// ErrBadParameter reports an invalid address, channel or type, or a board
	// that is not open.
	ErrBadParameter = errors.New("bad parameter")
	// ErrBusy reports an ADC that is not ready.
	ErrBusy = errors.New("device busy")
	// ErrLockTimeout reports that the bus or board lock could not be obtained in
	// time. The operation may be retried.
	ErrLockTimeout = errors.New("lock timeout")
	// ErrInvalidDevice reports an unexpected ADC identity.
	ErrInvalidDevice = errors.New("invalid device")
	// ErrResourceUnavailable reports a transport that could not be opened.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrCommsFailure reports a failed SPI transfer.
	ErrCommsFailure = errors.New("communications failure")
	// ErrUndefined reports an internal consistency check failure.
	ErrUndefined = errors.New("undefined error")
)

// commsError wraps a transport error so both ErrCommsFailure and the cause
// match errors.Is.
type commsError struct {
	err error
}

func (e *commsError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCommsFailure, e.err)
}

func (e *commsError) Is(target error) bool {
	return target == ErrCommsFailure
}

func (e *commsError) Unwrap() error {
	return e.err
}

func wrapAddr(addr uint8, err error) error {
	return fmt.Errorf("mcc134(addr %d): %w", addr, err)
}
