package mcc134

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
)

// fakeADC simulates the register interface of the ADC behind a spi.Conn.
// Conversion results are looked up by the selected mux value.
type fakeADC struct {
	mu     sync.Mutex
	regs   [18]uint8
	codes  map[uint8]uint32
	writes [][]byte
	resets int
	starts int
	fail   error
}

func newFakeADC() *fakeADC {
	return &fakeADC{codes: make(map[uint8]uint32)}
}

func (f *fakeADC) String() string      { return "fakeADC" }
func (f *fakeADC) Duplex() conn.Duplex { return conn.Full }
func (f *fakeADC) TxPackets(p []spi.Packet) error {
	return errors.New("not supported")
}

func (f *fakeADC) Tx(w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	switch {
	case w[0] == cmdReset:
		f.resets++
		f.regs = [18]uint8{}
	case w[0] == cmdStart:
		f.starts++
	case w[0] == cmdRData:
		code := f.codes[f.regs[regInpMux]]
		r[1] = byte(code >> 24)
		r[2] = byte(code >> 16)
		r[3] = byte(code >> 8)
		r[4] = byte(code)
	case w[0]&0xE0 == cmdRReg:
		reg, n := int(w[0]&0x1F), int(w[1])+1
		for i := 0; i < n; i++ {
			r[2+i] = f.regs[reg+i]
		}
	case w[0]&0xE0 == cmdWReg:
		f.writes = append(f.writes, append([]byte(nil), w...))
		reg, n := int(w[0]&0x1F), int(w[1])+1
		copy(f.regs[reg:reg+n], w[2:2+n])
	}
	return nil
}

func (f *fakeADC) setCode(hi, lo uint8, code uint32) {
	f.mu.Lock()
	f.codes[muxValue(hi, lo)] = code
	f.mu.Unlock()
}

func (f *fakeADC) reg(reg uint8) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[reg]
}

var _ spi.Conn = &fakeADC{}

func newTestPins() []*gpiotest.Pin {
	return []*gpiotest.Pin{
		{N: "GPIO12", Num: 12},
		{N: "GPIO13", Num: 13},
		{N: "GPIO26", Num: 26},
	}
}

func newTestBus(adc *fakeADC, pins []*gpiotest.Pin) *Bus {
	outs := make([]gpio.PinOut, len(pins))
	for i, p := range pins {
		outs[i] = p
	}
	return newBus(adc, outs, NewLocker("", time.Second))
}

func noSleep(time.Duration) {}

// fakeSampler returns fixed codes, or err while it is set.
type fakeSampler struct {
	mu      sync.Mutex
	cjc     [NumCJCSensors]uint32
	tc      [NumChannels]uint32
	err     error
	cjcRead [NumCJCSensors]int
	tcRead  [NumChannels]int
}

func (s *fakeSampler) readCJCCode(sensor int) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.cjcRead[sensor]++
	return s.cjc[sensor], nil
}

func (s *fakeSampler) readTCCode(ch int) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.tcRead[ch]++
	return s.tc[ch], nil
}

func (s *fakeSampler) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// codeForVolts returns the TC code that scales to v with unity calibration.
func codeForVolts(v float64) uint32 {
	return uint32(int32(v/((referenceVolts/pgaGain)/(MaxCode+1)))) & openTCMask
}
