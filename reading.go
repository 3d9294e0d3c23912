package mcc134

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// Status qualifies a temperature reading.
type Status int

const (
	StatusOK Status = iota
	// StatusOpenCircuit means no thermocouple is connected.
	StatusOpenCircuit
	// StatusCommonModeError means the thermocouple voltage is outside the
	// ADC common-mode range, usually a thermocouple touching a voltage source.
	StatusCommonModeError
	// StatusOverrange means the voltage is outside the linearizable range.
	StatusOverrange
)

var statusNames = [...]string{"ok", "open circuit", "common-mode error", "overrange"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Reading is the temperature of one channel. Celsius is NaN unless Status is
// StatusOK.
type Reading struct {
	Status  Status
	Celsius float64
}

// Value returns the temperature, or the legacy out-of-range constant for the
// status.
func (r Reading) Value() float64 {
	switch r.Status {
	case StatusOK:
		return r.Celsius
	case StatusOpenCircuit:
		return OpenTCValue
	case StatusCommonModeError:
		return CommonModeValue
	default:
		return OverrangeValue
	}
}

// Temperature converts a valid reading to a physic.Temperature.
func (r Reading) Temperature() (physic.Temperature, error) {
	if r.Status != StatusOK {
		return 0, fmt.Errorf("mcc134: %v", r.Status)
	}
	return physic.Temperature(r.Celsius*1000)*physic.MilliCelsius + physic.ZeroCelsius, nil
}

func (r Reading) String() string {
	if r.Status != StatusOK {
		return r.Status.String()
	}
	return fmt.Sprintf("%.2f°C", r.Celsius)
}

func invalidReading(s Status) Reading {
	return Reading{Status: s, Celsius: math.NaN()}
}
