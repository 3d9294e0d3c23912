package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SPI SPIConfig `yaml:"spi"`
	// CalibrationPath is a file name pattern with one %d verb for the board
	// address. Empty means every board uses default calibration.
	CalibrationPath string        `yaml:"calibration_path"`
	IntervalMs      int           `yaml:"interval_ms"`
	Boards          []BoardConfig `yaml:"boards"`
	Modbus          *ModbusConfig `yaml:"modbus"`
}

// ---- BUS ----

type SPIConfig struct {
	Port          string   `yaml:"port"` // spireg name, empty selects the first port
	SpeedHz       int64    `yaml:"speed_hz"`
	AddressPins   []string `yaml:"address_pins"`
	LockDir       string   `yaml:"lock_dir"`
	LockTimeoutMs int      `yaml:"lock_timeout_ms"`
}

// ---- BOARD ----

type BoardConfig struct {
	Address uint8 `yaml:"address"`
	// UpdateInterval is the acquisition cycle in seconds.
	UpdateInterval int `yaml:"update_interval"`
	// Channels lists the thermocouple type letter of each channel, or
	// "disabled". Missing channels are disabled.
	Channels []string `yaml:"channels"`
}

// ---- MODBUS ----

type ModbusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// Load reads a YAML configuration file. The result is neither validated nor
// normalized.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %v", path, err)
	}
	return &cfg, nil
}
