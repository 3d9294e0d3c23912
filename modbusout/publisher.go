// Package modbusout publishes thermocouple readings into the holding
// registers of a Modbus TCP server.
package modbusout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/mikesmitty/mcc134"
)

type Config struct {
	Endpoint string
	UnitID   uint8
	// BaseAddress is the first register of board 0. Board n starts at
	// BaseAddress + n*RegistersPerBoard.
	BaseAddress uint16
	Timeout     time.Duration
}

// registerWriter is the subset of modbus.Client used here.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Publisher is a single TCP connection to the server. Requests are
// serialized.
type Publisher struct {
	mu      sync.Mutex
	cfg     Config
	handler *modbus.TCPClientHandler
	client  registerWriter
}

func Dial(cfg Config) (*Publisher, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbusout: endpoint required")
	}
	if err := checkRange(cfg.BaseAddress); err != nil {
		return nil, err
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbusout: %v", err)
	}

	return &Publisher{
		cfg:     cfg,
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func newPublisher(cfg Config, w registerWriter) *Publisher {
	return &Publisher{cfg: cfg, client: w}
}

// checkRange fails when the blocks of all boards do not fit below 0x10000.
func checkRange(base uint16) error {
	if int(base)+mcc134.MaxBoards*RegistersPerBoard > 0x10000 {
		return fmt.Errorf("modbusout: base address %d out of range", base)
	}
	return nil
}

// Address returns the first register of the block of board addr.
func (p *Publisher) Address(addr uint8) uint16 {
	return p.cfg.BaseAddress + uint16(addr)*RegistersPerBoard
}

// Publish writes the block of board addr in a single request.
func (p *Publisher) Publish(addr uint8, chans []Channel) error {
	if addr >= mcc134.MaxBoards {
		return fmt.Errorf("modbusout: board address %d out of range", addr)
	}
	regs := Encode(chans)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.client.WriteMultipleRegisters(p.Address(addr), uint16(len(regs)), packRegisters(regs)); err != nil {
		return fmt.Errorf("modbusout: board %d: %w", addr, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handler == nil {
		return nil
	}
	return p.handler.Close()
}
