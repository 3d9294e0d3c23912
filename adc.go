package mcc134

import (
	"encoding/binary"
	"time"
)

// adcSession drives the ADC of one board. Each operation is a complete
// transaction under the board lock.
type adcSession struct {
	bus   *Bus
	addr  uint8
	sleep func(time.Duration)
}

func newADCSession(bus *Bus, addr uint8, sleep func(time.Duration)) *adcSession {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &adcSession{bus: bus, addr: addr, sleep: sleep}
}

func resetCmd() []byte {
	return []byte{cmdReset}
}

func startCmd() []byte {
	return []byte{cmdStart}
}

// readRegCmd reads n registers from reg; the values are clocked out after
// the two command bytes.
func readRegCmd(reg uint8, n int) []byte {
	b := make([]byte, 2+n)
	b[0] = cmdRReg | reg
	b[1] = byte(n - 1)
	return b
}

// writeRegCmd writes consecutive registers starting at reg. The ADC applies
// them in order.
func writeRegCmd(reg uint8, vals ...uint8) []byte {
	b := make([]byte, 0, 2+len(vals))
	b = append(b, cmdWReg|reg, byte(len(vals)-1))
	return append(b, vals...)
}

func readDataCmd() []byte {
	return []byte{cmdRData, cmdNOP, cmdNOP, cmdNOP, cmdNOP}
}

func muxValue(hi, lo uint8) uint8 {
	return hi<<4 | lo
}

// init resets the ADC, checks its identity and starts continuous
// conversions.
func (s *adcSession) init() error {
	tok, err := s.bus.lock.Acquire(BoardScope, s.addr)
	if err != nil {
		return err
	}
	defer tok.Release()

	if err := s.bus.Tx(s.addr, resetCmd(), nil); err != nil {
		return err
	}
	// 4096 clocks after reset before the ADC is usable.
	s.sleep(time.Millisecond)

	w := readRegCmd(regID, 2)
	r := make([]byte, len(w))
	if err := s.bus.Tx(s.addr, w, r); err != nil {
		return err
	}
	if r[2]&idMask != 0 {
		return ErrInvalidDevice
	}
	if r[3]&statusNotReady != 0 {
		return ErrBusy
	}

	w = writeRegCmd(regInpMux,
		muxRefShort,                // INPMUX
		pgaEnable+tcGainIndex,      // PGA
		dataRateChop+dataRateIndex, // DATARATE
		0x3A,                       // REF
		0x80,                       // IDACMAG
		0xFF,                       // IDACMUX
		0x00,                       // VBIAS
		0x01,                       // SYS
	)
	if err := s.bus.Tx(s.addr, w, nil); err != nil {
		return err
	}

	if err := s.bus.Tx(s.addr, startCmd(), nil); err != nil {
		return err
	}
	s.sleep(time.Millisecond)
	return nil
}

// convert selects the inputs and gain, waits one conversion and reads the
// result. The mux register is written before the PGA register so the gain
// never changes while the previous inputs are still selected. The caller
// holds the board lock.
func (s *adcSession) convert(hi, lo, gain uint8) ([]byte, error) {
	w := writeRegCmd(regInpMux, muxValue(hi, lo), pgaEnable+gain)
	if err := s.bus.Tx(s.addr, w, nil); err != nil {
		return nil, err
	}

	s.sleep(conversionTimes[dataRateIndex])

	w = readDataCmd()
	r := make([]byte, len(w))
	if err := s.bus.Tx(s.addr, w, r); err != nil {
		return nil, err
	}
	return r, nil
}

// readTCCode returns the raw status and data word of thermocouple input ch.
func (s *adcSession) readTCCode(ch int) (uint32, error) {
	tok, err := s.bus.lock.Acquire(BoardScope, s.addr)
	if err != nil {
		return 0, err
	}
	defer tok.Release()

	r, err := s.convert(tcPinHi[ch], tcPinLo[ch], tcGainIndex)
	if err != nil {
		return 0, err
	}
	code := binary.BigEndian.Uint32(r[1:5])

	if code&openTCMask == openTCCode {
		// Open input: short the mux to the reference so the next
		// conversion settles faster.
		if err := s.bus.Tx(s.addr, writeRegCmd(regInpMux, muxRefShort), nil); err != nil {
			return 0, err
		}
	}
	return code, nil
}

// readCJCCode returns the 24-bit code of CJC thermistor sensor.
func (s *adcSession) readCJCCode(sensor int) (uint32, error) {
	tok, err := s.bus.lock.Acquire(BoardScope, s.addr)
	if err != nil {
		return 0, err
	}
	r, err := s.convert(cjcPinHi[sensor], cjcPinLo[sensor], cjcGainIndex)
	tok.Release()
	if err != nil {
		return 0, err
	}

	code := uint32(r[2])<<16 | uint32(r[3])<<8 | uint32(r[4])
	// The thermistor divider can never produce a negative code.
	if code&signBit != 0 {
		return 0, ErrUndefined
	}
	return code, nil
}
