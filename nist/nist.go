// Package nist converts between thermocouple EMF and temperature using the
// NIST ITS-90 polynomial approximations.
//
// Voltages are in millivolts and temperatures in degrees Celsius. The
// voltage-to-temperature direction is piecewise: each thermocouple type has an
// ordered list of ranges, each bounded above by a threshold voltage. The
// temperature-to-voltage direction uses a single polynomial per type, which is
// all that cold-junction compensation needs.
package nist

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type identifies a thermocouple type.
type Type int

const (
	TypeJ Type = iota
	TypeK
	TypeT
	TypeE
	TypeR
	TypeS
	TypeB
	TypeN
)

var typeNames = [...]string{"J", "K", "T", "E", "R", "S", "B", "N"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type for a single letter name such as "K".
func ParseType(s string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(s, n) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("nist: unknown thermocouple type %q", s)
}

// ErrUnknownType is returned when a Tables implementation has no data for a type.
var ErrUnknownType = errors.New("nist: unknown thermocouple type")

// Range is one voltage-to-temperature polynomial. It applies to voltages up to
// and including Threshold.
type Range struct {
	Threshold    float64
	Coefficients []float64
}

// Thermocouple holds the coefficient data of one type.
type Thermocouple struct {
	// Ranges must be sorted by ascending Threshold.
	Ranges []Range
	// Reverse converts temperature to voltage.
	Reverse []float64
}

// Tables looks up the coefficient data for a thermocouple type.
type Tables interface {
	Lookup(t Type) (*Thermocouple, bool)
}

// Linearizer evaluates the polynomials found in Tables.
type Linearizer struct {
	Tables Tables
}

// Default uses the built-in ITS-90 tables.
var Default = Linearizer{Tables: ITS90}

// VoltageFromTemperature returns the EMF in mV of a type t thermocouple
// with its measuring junction at c degrees and its reference junction at 0°C.
func (l Linearizer) VoltageFromTemperature(t Type, c float64) (float64, error) {
	tc, ok := l.Tables.Lookup(t)
	if !ok || len(tc.Reverse) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	v := horner(tc.Reverse, c)
	if t == TypeK {
		// Type K carries an exponential term on top of its polynomial.
		d := c - kExponential[2]
		v += kExponential[0] * math.Exp(kExponential[1]*d*d)
	}
	return v, nil
}

// TemperatureFromVoltage returns the temperature in °C of a type t
// thermocouple producing mv millivolts against a 0°C reference junction.
//
// Voltages beyond the last threshold are extrapolated with the last range.
func (l Linearizer) TemperatureFromVoltage(t Type, mv float64) (float64, error) {
	tc, ok := l.Tables.Lookup(t)
	if !ok || len(tc.Ranges) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	r := tc.Ranges[rangeIndex(tc.Ranges, mv)]
	return horner(r.Coefficients, mv), nil
}

// VoltageFromTemperature uses the Default linearizer.
func VoltageFromTemperature(t Type, c float64) (float64, error) {
	return Default.VoltageFromTemperature(t, c)
}

// TemperatureFromVoltage uses the Default linearizer.
func TemperatureFromVoltage(t Type, mv float64) (float64, error) {
	return Default.TemperatureFromVoltage(t, mv)
}

// rangeIndex picks the first range whose threshold is not exceeded by mv.
// A voltage equal to a threshold stays in the lower range.
func rangeIndex(ranges []Range, mv float64) int {
	i := 0
	for i < len(ranges) && mv > ranges[i].Threshold {
		i++
	}
	if i == len(ranges) {
		return i - 1
	}
	return i
}

func horner(coef []float64, x float64) float64 {
	var y float64
	for i := len(coef) - 1; i >= 0; i-- {
		y = y*x + coef[i]
	}
	return y
}
