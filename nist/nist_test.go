package nist

import (
	"errors"
	"math"
	"testing"
)

func TestVoltageFromTemperatureReference(t *testing.T) {
	// EMF at 100°C from the NIST reference tables.
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeJ, 5.269},
		{TypeK, 4.096},
		{TypeT, 4.279},
		{TypeE, 6.319},
		{TypeR, 0.647},
		{TypeS, 0.646},
		{TypeB, 0.033},
		{TypeN, 2.774},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := VoltageFromTemperature(tt.typ, 100)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.002 {
				t.Fatalf("V(100°C) = %.4f mV, want %.3f mV", got, tt.want)
			}
		})
	}
}

func TestTypeKExponentialTerm(t *testing.T) {
	got, err := VoltageFromTemperature(TypeK, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got) > 1e-3 {
		t.Fatalf("V(0°C) = %g mV, want ~0", got)
	}

	// Without the exponential term the polynomial alone is off by ~17.6 µV.
	poly := horner(ITS90.(tableSet)[TypeK].Reverse, 0)
	if math.Abs(poly-got) < 0.01 {
		t.Fatalf("exponential term not applied: poly=%g total=%g", poly, got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typ Type
		mv  float64
	}{
		{TypeJ, 10.0},
		{TypeK, 10.0},
		{TypeK, 30.0},
		{TypeT, 5.0},
		{TypeE, 20.0},
		{TypeR, 1.0},
		{TypeR, 8.0},
		{TypeS, 1.0},
		{TypeS, 8.0},
		{TypeB, 1.0},
		{TypeN, 10.0},
		{TypeN, 30.0},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			t1, err := TemperatureFromVoltage(tt.typ, tt.mv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			v, err := VoltageFromTemperature(tt.typ, t1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			t2, err := TemperatureFromVoltage(tt.typ, v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(t2-t1) > 0.1 {
				t.Fatalf("%v mV: T=%.4f, T(V(T))=%.4f", tt.mv, t1, t2)
			}
			if math.Abs(v-tt.mv) > 0.01 {
				t.Fatalf("%v mV: V(T(v))=%.5f", tt.mv, v)
			}
		})
	}
}

func TestRangeSelection(t *testing.T) {
	ranges := ITS90.(tableSet)[TypeK].Ranges

	tests := []struct {
		name string
		mv   float64
		want int
	}{
		{"below first", -3.0, 0},
		{"equal first threshold", 0.0, 0},
		{"just above first", 0.001, 1},
		{"equal middle threshold", 20.644, 1},
		{"just above middle", 20.645, 2},
		{"equal last threshold", 54.886, 2},
		{"beyond last", 60.0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rangeIndex(ranges, tt.mv); got != tt.want {
				t.Fatalf("rangeIndex(%v) = %d, want %d", tt.mv, got, tt.want)
			}
		})
	}
}

func TestExtrapolatesBeyondLastRange(t *testing.T) {
	got, err := TemperatureFromVoltage(TypeT, 25.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := horner(ITS90.(tableSet)[TypeT].Ranges[1].Coefficients, 25.0)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnknownType(t *testing.T) {
	if _, err := TemperatureFromVoltage(Type(42), 1); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := VoltageFromTemperature(Type(-1), 1); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestCustomTables(t *testing.T) {
	l := Linearizer{Tables: tableSet{
		TypeT: {
			Ranges:  []Range{{1, []float64{0, 10}}, {2, []float64{5, 5}}},
			Reverse: []float64{0, 0.1},
		},
	}}
	if got, _ := l.TemperatureFromVoltage(TypeT, 1); got != 10 {
		t.Fatalf("tie should use the lower range, got %v", got)
	}
	if got, _ := l.TemperatureFromVoltage(TypeT, 3); got != 20 {
		t.Fatalf("beyond last threshold should use the last range, got %v", got)
	}
	if got, _ := l.VoltageFromTemperature(TypeT, 30); math.Abs(got-3) > 1e-12 {
		t.Fatalf("reverse polynomial, got %v", got)
	}
	if _, err := l.VoltageFromTemperature(TypeK, 30); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"k", "K"} {
		if got, err := ParseType(s); err != nil || got != TypeK {
			t.Fatalf("ParseType(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseType("Q"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
