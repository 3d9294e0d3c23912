package mcc134

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// spidev default buffer size.
const maxTransfer = 4096

// BusOpts holds the configuration of the SPI bus shared by all boards.
type BusOpts struct {
	// AddressPins name the GPIOs driving board address bits 0, 1 and 2. Leave
	// empty when the bus has no address lines.
	AddressPins []string
	// Speed is kept low because of the propagation delay through the
	// isolators.
	Speed physic.Frequency
	// LockDir holds the lock files shared with other processes. Empty disables
	// them.
	LockDir     string
	LockTimeout time.Duration
}

func DefaultBusOptions() *BusOpts {
	return &BusOpts{
		AddressPins: []string{"GPIO12", "GPIO13", "GPIO26"},
		Speed:       2 * physic.MegaHertz,
		LockDir:     os.TempDir(),
		LockTimeout: defaultLockTimeout,
	}
}

// Bus is the SPI bus shared by all boards on the stack. Every transfer
// selects the target board with the address pins while holding the bus
// lock.
type Bus struct {
	c    spi.Conn
	pins []gpio.PinOut
	lock *Locker
	port spi.Port
	name string
}

// NewBus connects to p in SPI mode 1.
func NewBus(p spi.Port, opts *BusOpts) (*Bus, error) {
	if opts == nil {
		opts = DefaultBusOptions()
	}
	if opts.Speed == 0 {
		opts.Speed = 2 * physic.MegaHertz
	}

	c, err := p.Connect(opts.Speed, spi.Mode1, 8)
	if err != nil {
		return nil, fmt.Errorf("mcc134: %w: %v", ErrResourceUnavailable, err)
	}

	pins := make([]gpio.PinOut, 0, len(opts.AddressPins))
	for _, name := range opts.AddressPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("mcc134: %w: no address pin %q", ErrResourceUnavailable, name)
		}
		pins = append(pins, pin)
	}

	b := newBus(c, pins, NewLocker(opts.LockDir, opts.LockTimeout))
	b.port = p
	b.name = p.String()
	return b, nil
}

func newBus(c spi.Conn, pins []gpio.PinOut, lock *Locker) *Bus {
	return &Bus{
		c:    c,
		pins: pins,
		lock: lock,
		name: c.String(),
	}
}

func (b *Bus) String() string {
	return b.name
}

// Tx performs one full-duplex transfer with the board at addr. r may be nil
// for a write-only transfer.
func (b *Bus) Tx(addr uint8, w, r []byte) error {
	if addr >= MaxBoards || len(w) > maxTransfer || (r != nil && len(r) != len(w)) {
		return ErrBadParameter
	}

	tok, err := b.lock.Acquire(BusScope, addr)
	if err != nil {
		return err
	}
	defer tok.Release()

	for i, p := range b.pins {
		if err := p.Out(gpio.Level(addr&(1<<uint(i)) != 0)); err != nil {
			return &commsError{err}
		}
	}
	if err := b.c.Tx(w, r); err != nil {
		return &commsError{err}
	}
	return nil
}

// Close releases the address pins and the port when it can be closed.
func (b *Bus) Close() error {
	var err error
	for _, p := range b.pins {
		err = multierr.Append(err, p.Halt())
	}
	if c, ok := b.port.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}
