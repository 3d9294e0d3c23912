package config

import "github.com/mikesmitty/mcc134"

const (
	defaultIntervalMs    = 1000
	defaultSpeedHz       = 2000000
	defaultLockTimeoutMs = 5000
	defaultModbusTimeout = 1000
)

// Normalize fills in defaults.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.IntervalMs == 0 {
		cfg.IntervalMs = defaultIntervalMs
	}
	if cfg.SPI.SpeedHz == 0 {
		cfg.SPI.SpeedHz = defaultSpeedHz
	}
	if cfg.SPI.LockTimeoutMs == 0 {
		cfg.SPI.LockTimeoutMs = defaultLockTimeoutMs
	}
	// nil selects the default pins, an explicit empty list disables them.
	if cfg.SPI.AddressPins == nil {
		cfg.SPI.AddressPins = mcc134.DefaultBusOptions().AddressPins
	}

	for i := range cfg.Boards {
		b := &cfg.Boards[i]
		if b.UpdateInterval == 0 {
			b.UpdateInterval = 1
		}
		for len(b.Channels) < mcc134.NumChannels {
			b.Channels = append(b.Channels, "disabled")
		}
	}

	if cfg.Modbus != nil && cfg.Modbus.TimeoutMs == 0 {
		cfg.Modbus.TimeoutMs = defaultModbusTimeout
	}
}
