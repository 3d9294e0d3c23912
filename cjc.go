package mcc134

import "math"

// cjcFilter is a moving average over the last cjcAverageCount cycles of
// each CJC sensor. Slots [0, count) hold valid codes.
type cjcFilter struct {
	buf   [NumCJCSensors][cjcAverageCount]uint32
	index int
	count int
}

func (f *cjcFilter) reset() {
	f.index = 0
	f.count = 1
}

// add stores code in the current slot of sensor and returns the rounded
// mean of the filled slots.
func (f *cjcFilter) add(sensor int, code uint32) uint32 {
	f.buf[sensor][f.index] = code
	var sum float64
	for i := 0; i < f.count; i++ {
		sum += float64(f.buf[sensor][i])
	}
	return uint32(sum/float64(f.count) + 0.5)
}

// advance moves to the next slot once every sensor has been sampled.
func (f *cjcFilter) advance() {
	f.index++
	if f.index >= cjcAverageCount {
		f.index = 0
	}
	if f.count < cjcAverageCount {
		f.count++
	}
}

// interpolateCJC estimates the cold junction code at a terminal from the
// three sensors, which sit between the four channel terminals.
func interpolateCJC(codes [NumCJCSensors]uint32, ch int) float64 {
	s0, s1, s2 := float64(codes[0]), float64(codes[1]), float64(codes[2])
	switch ch {
	case 0:
		return s0 + (s1-s0)/3
	case 1:
		return s1 + (s0-s1)/3
	case 2:
		return s1 + (s2-s1)/3
	default:
		return s2
	}
}

// thermistorTemp returns the temperature in °C of the CJC thermistor with
// resistance r.
func thermistorTemp(r float64) float64 {
	lr := math.Log(r)
	return 1/(steinhartA+steinhartB*lr+steinhartC*lr*lr*lr) - 273.15
}

func cjcTemperatureFromCode(code float64) float64 {
	return thermistorTemp(code * cjcRefR / (cjcMaxCode - code))
}
