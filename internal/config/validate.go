package config

import (
	"fmt"

	"github.com/mikesmitty/mcc134"
	"github.com/mikesmitty/mcc134/modbusout"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: missing")
	}
	if cfg.IntervalMs < 0 {
		return fmt.Errorf("interval_ms must not be negative, got %d", cfg.IntervalMs)
	}
	if cfg.SPI.SpeedHz < 0 || cfg.SPI.LockTimeoutMs < 0 {
		return fmt.Errorf("spi: speed_hz and lock_timeout_ms must not be negative")
	}
	if len(cfg.SPI.AddressPins) > 3 {
		return fmt.Errorf("spi: at most 3 address_pins, got %d", len(cfg.SPI.AddressPins))
	}

	if len(cfg.Boards) == 0 {
		return fmt.Errorf("no boards configured")
	}
	seen := make(map[uint8]bool)
	for i, b := range cfg.Boards {
		if b.Address >= mcc134.MaxBoards {
			return fmt.Errorf("board %d: address %d out of range", i, b.Address)
		}
		if seen[b.Address] {
			return fmt.Errorf("board %d: address %d configured twice", i, b.Address)
		}
		seen[b.Address] = true

		if b.UpdateInterval < 0 || b.UpdateInterval > 255 {
			return fmt.Errorf("board %d: update_interval %d out of range", b.Address, b.UpdateInterval)
		}
		if len(b.Channels) > mcc134.NumChannels {
			return fmt.Errorf("board %d: %d channels, the board has %d", b.Address, len(b.Channels), mcc134.NumChannels)
		}
		for ch, name := range b.Channels {
			if _, err := mcc134.ParseTCType(name); err != nil {
				return fmt.Errorf("board %d channel %d: %v", b.Address, ch, err)
			}
		}
	}

	if m := cfg.Modbus; m != nil {
		if m.Endpoint == "" {
			return fmt.Errorf("modbus: endpoint required")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("modbus: timeout_ms must not be negative")
		}
		if int(m.BaseAddress)+mcc134.MaxBoards*modbusout.RegistersPerBoard > 0x10000 {
			return fmt.Errorf("modbus: base_address %d leaves no room for %d boards", m.BaseAddress, mcc134.MaxBoards)
		}
	}
	return nil
}
