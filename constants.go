package mcc134

import "time"

// MaxBoards is the number of board addresses on the stack.
const MaxBoards = 8

const (
	// NumChannels is the number of thermocouple inputs.
	NumChannels = 4
	// NumCJCSensors is the number of cold junction thermistors.
	NumCJCSensors = 3
)

// ADC registers
const (
	regID uint8 = iota
	regStatus
	regInpMux
	regPGA
	regDataRate
	regRef
	regIDACMag
	regIDACMux
	regVBias
	regSys
)

// ADC commands
const (
	cmdNOP   uint8 = 0x00
	cmdReset uint8 = 0x06
	cmdStart uint8 = 0x08
	cmdRData uint8 = 0x12
	cmdRReg  uint8 = 0x20
	cmdWReg  uint8 = 0x40
)

const (
	// 20 SPS for best 50/60Hz rejection.
	dataRateIndex = 4
	// TC gain 32x gives +/-78.125mV, CJC gain 1x gives +/-2.5V.
	tcGainIndex  = 5
	cjcGainIndex = 0

	pgaEnable      uint8 = 0x08
	dataRateChop   uint8 = 0x90
	muxRefShort    uint8 = 0x88
	idMask         uint8 = 0x07
	statusNotReady uint8 = 0x40
)

// Conversion times from the data sheet at 4.096MHz with global chop, plus the
// 1.5% oscillator tolerance. Indexed by data rate.
var conversionTimes = [...]time.Duration{
	convTime(813.008),
	convTime(413.008),
	convTime(213.008),
	convTime(120.508),
	convTime(113.008),
	convTime(40.313),
	convTime(33.820),
	convTime(20.313),
	convTime(10.313),
	convTime(5.313),
	convTime(2.813),
	convTime(2.313),
	convTime(1.313),
	convTime(0.813),
}

const nSettle = 28

func convTime(ms float64) time.Duration {
	us := uint32(ms*1.015*1000 + nSettle*16*1.015/4.096e3 + 0.5)
	return time.Duration(us) * time.Microsecond
}

// Input pins for each channel and sensor.
var (
	tcPinHi  = [NumChannels]uint8{7, 5, 3, 1}
	tcPinLo  = [NumChannels]uint8{6, 4, 2, 0}
	cjcPinHi = [NumCJCSensors]uint8{8, 8, 8}
	cjcPinLo = [NumCJCSensors]uint8{9, 10, 11}
)

// Code and voltage constants.
const (
	MaxCode = 8388607
	MinCode = -8388608

	referenceVolts = 2.5
	pgaGain        = 32

	RangeMin   = -0.078125
	RangeMax   = 0.078125
	lsbSize    = (RangeMax - RangeMin) / (MaxCode + 1 - MinCode)
	VoltageMin = RangeMin
	VoltageMax = RangeMax - lsbSize

	openTCMask     uint32 = 0x00FFFFFF
	openTCCode     uint32 = 0x007FFFFF
	commonModeMask uint32 = 0x3C000000
	signBit        uint32 = 0x00800000

	openTCVoltage = VoltageMax

	posOverrangeVolts = 0.075
	negOverrangeVolts = -0.015
)

// Legacy out-of-range temperature values, reported by Reading.Value.
const (
	OpenTCValue     = -9999.0
	OverrangeValue  = -8888.0
	CommonModeValue = -7777.0
)

// CJC thermistor
const (
	cjcMaxCode = 0x7FFFFF
	cjcRefR    = 10000.0

	steinhartA = 1.2873851e-3
	steinhartB = 2.3575235e-4
	steinhartC = 9.4978060e-8

	cjcAverageCount = 30
	// Filter CJC readings when the interval is this many seconds or less.
	cjcFilterMaxInterval = 5
)

// Acquisition timing
const (
	cjcInterTime       = 1 * time.Millisecond
	cjcConversionTime  = 114 * time.Millisecond
	tcInterTime        = 1 * time.Millisecond
	tcConversionTime   = 114 * time.Millisecond
	idleTick           = 10 * time.Millisecond
	defaultLockTimeout = 5 * time.Second
	pollInterval       = 1 * time.Millisecond
)
