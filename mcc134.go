// Package mcc134 drives MCC 134 thermocouple boards stacked on a shared SPI
// bus.
//
// Each open board runs a background goroutine that keeps sampling its CJC
// sensors and enabled channels. Reads block until the first complete cycle
// after the board was opened or reconfigured, then return the most recent
// values.
package mcc134

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikesmitty/mcc134/nist"
	"periph.io/x/conn/v3"
)

// LogPrintf is used for diagnostics.
type LogPrintf func(format string, v ...interface{})

// Opts holds the configuration of a Registry.
type Opts struct {
	// Calibration supplies the factory data of each board. Boards without
	// data use DefaultCalibration.
	Calibration CalibrationSource
	LogPrintf   LogPrintf
	// PollInterval is how often blocked reads check for a new cycle.
	PollInterval time.Duration
}

func DefaultOptions() *Opts {
	return &Opts{
		PollInterval: pollInterval,
	}
}

// TCType selects the thermocouple type of a channel.
type TCType uint8

const (
	TypeJ TCType = iota
	TypeK
	TypeT
	TypeE
	TypeR
	TypeS
	TypeB
	TypeN

	TCDisabled TCType = 0xFF
)

func (t TCType) valid() bool {
	return t <= TypeN || t == TCDisabled
}

func (t TCType) String() string {
	if t == TCDisabled {
		return "disabled"
	}
	return nist.Type(t).String()
}

// ParseTCType accepts a type letter or "disabled".
func ParseTCType(s string) (TCType, error) {
	if s == "disabled" || s == "" {
		return TCDisabled, nil
	}
	t, err := nist.ParseType(s)
	if err != nil {
		return 0, fmt.Errorf("mcc134: %w: %v", ErrBadParameter, err)
	}
	return TCType(t), nil
}

// ReadOption modifies ReadRaw.
type ReadOption uint8

const (
	OptDefault ReadOption = 0
	// OptNoScaleData returns the ADC code instead of volts.
	OptNoScaleData ReadOption = 1 << 0
	// OptNoCalibrateData skips the factory calibration.
	OptNoCalibrateData ReadOption = 1 << 1
)

// DeviceInfo holds the fixed characteristics of the board.
type DeviceInfo struct {
	NumChannels int
	MinCode     int32
	MaxCode     int32
	MinVoltage  float64
	MaxVoltage  float64
	MinRange    float64
	MaxRange    float64
}

func Info() DeviceInfo {
	return DeviceInfo{
		NumChannels: NumChannels,
		MinCode:     MinCode,
		MaxCode:     MaxCode,
		MinVoltage:  VoltageMin,
		MaxVoltage:  VoltageMax,
		MinRange:    RangeMin,
		MaxRange:    RangeMax,
	}
}

// device is the shared record of an open board. handles is guarded by the
// Registry mutex, everything else by mu.
type device struct {
	addr    uint8
	handles int

	mu       sync.Mutex
	cal      Calibration
	types    [NumChannels]TCType
	interval int
	tcCodes  [NumChannels]uint32
	cjcCodes [NumCJCSensors]uint32
	tcValid  bool
	cjcValid bool
	tcErr    error
	cjcErr   error
	reset    bool
	closed   bool

	stop chan struct{}
	wg   sync.WaitGroup
}

func newDevice(addr uint8, cal Calibration) *device {
	d := &device{
		addr:     addr,
		handles:  1,
		cal:      cal,
		interval: 1,
		stop:     make(chan struct{}),
	}
	for i := range d.types {
		d.types[i] = TCDisabled
	}
	return d
}

// setType changes the type of a channel. Enabling or disabling it makes the
// engine restart its cycle.
func (d *device) setType(ch int, t TCType) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if (d.types[ch] == TCDisabled) != (t == TCDisabled) {
		d.reset = true
		d.tcValid = false
	}
	d.types[ch] = t
}

// Registry tracks the open boards of a bus. A board stays open, with one
// acquisition goroutine, until every handle returned by Open is closed.
type Registry struct {
	bus  *Bus
	opts Opts

	mu      sync.Mutex
	devices map[uint8]*device

	sleep      func(time.Duration)
	newSampler func(addr uint8) (sampler, error)
}

func New(bus *Bus, opts *Opts) *Registry {
	if opts == nil {
		opts = DefaultOptions()
	}
	r := &Registry{
		bus:     bus,
		opts:    *opts,
		devices: make(map[uint8]*device),
		sleep:   time.Sleep,
	}
	if r.opts.LogPrintf == nil {
		r.opts.LogPrintf = func(string, ...interface{}) {}
	}
	if r.opts.PollInterval <= 0 {
		r.opts.PollInterval = pollInterval
	}
	r.newSampler = r.openSession
	return r
}

func (r *Registry) openSession(addr uint8) (sampler, error) {
	if r.bus == nil {
		return nil, ErrResourceUnavailable
	}
	s := newADCSession(r.bus, addr, r.sleep)
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open returns a handle to the board at addr, initializing it on first use.
func (r *Registry) Open(addr uint8) (*Dev, error) {
	if addr >= MaxBoards {
		return nil, wrapAddr(addr, ErrBadParameter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.devices[addr]; ok {
		d.handles++
		return &Dev{r: r, addr: addr}, nil
	}

	cal := loadCalibration(r.opts.Calibration, addr, r.opts.LogPrintf)
	s, err := r.newSampler(addr)
	if err != nil {
		return nil, wrapAddr(addr, err)
	}

	d := newDevice(addr, cal)
	e := newEngine(d, s, r.sleep, r.opts.LogPrintf)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		e.run(d.stop)
	}()
	r.devices[addr] = d
	return &Dev{r: r, addr: addr}, nil
}

// Close releases one handle of the board at addr. Releasing the last one
// stops the acquisition goroutine and waits for it.
func (r *Registry) Close(addr uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[addr]
	if !ok {
		return wrapAddr(addr, ErrBadParameter)
	}
	d.handles--
	if d.handles > 0 {
		return nil
	}

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	close(d.stop)
	d.wg.Wait()
	delete(r.devices, addr)
	return nil
}

func (r *Registry) IsOpen(addr uint8) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.devices[addr]
	return ok
}

func (r *Registry) device(addr uint8) (*device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[addr]
	if !ok {
		return nil, wrapAddr(addr, ErrBadParameter)
	}
	return d, nil
}

// channel returns the open board at addr and validates ch against n.
func (r *Registry) channel(addr uint8, ch, n int) (*device, error) {
	d, err := r.device(addr)
	if err != nil {
		return nil, err
	}
	if ch < 0 || ch >= n {
		return nil, wrapAddr(addr, fmt.Errorf("%w: channel %d", ErrBadParameter, ch))
	}
	return d, nil
}

// SetChannelType sets the thermocouple type of a channel. Enabling or
// disabling a channel discards the current readings of the board until the
// next complete cycle.
func (r *Registry) SetChannelType(addr uint8, ch int, t TCType) error {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return err
	}
	if !t.valid() {
		return wrapAddr(addr, fmt.Errorf("%w: type %d", ErrBadParameter, t))
	}

	d.setType(ch, t)
	return nil
}

func (r *Registry) ChannelType(addr uint8, ch int) (TCType, error) {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.types[ch], nil
}

// SetUpdateInterval sets the acquisition cycle of the board in seconds. Values
// below 1 are raised to 1.
func (r *Registry) SetUpdateInterval(addr uint8, seconds int) error {
	d, err := r.device(addr)
	if err != nil {
		return err
	}
	if seconds > 255 {
		return wrapAddr(addr, fmt.Errorf("%w: interval %d", ErrBadParameter, seconds))
	}
	if seconds < 1 {
		seconds = 1
	}
	d.mu.Lock()
	d.interval = seconds
	d.mu.Unlock()
	return nil
}

func (r *Registry) UpdateInterval(addr uint8) (int, error) {
	d, err := r.device(addr)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interval, nil
}

func (r *Registry) Serial(addr uint8) (string, error) {
	d, err := r.device(addr)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cal.Serial, nil
}

func (r *Registry) CalibrationDate(addr uint8) (string, error) {
	d, err := r.device(addr)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cal.Date, nil
}

func (r *Registry) CalibrationCoefficient(addr uint8, ch int) (slope, offset float64, err error) {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return 0, 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cal.Slopes[ch], d.cal.Offsets[ch], nil
}

// SetCalibrationCoefficient overrides the factory calibration of a channel
// until the board is closed.
func (r *Registry) SetCalibrationCoefficient(addr uint8, ch int, slope, offset float64) error {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cal.Slopes[ch] = slope
	d.cal.Offsets[ch] = offset
	return nil
}

func (r *Registry) wait(ctx context.Context) error {
	t := time.NewTimer(r.opts.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// tcSample is a published channel code with the calibration that applies
// to it.
type tcSample struct {
	code   uint32
	slope  float64
	offset float64
	typ    TCType
}

// waitTC blocks until the board has published a cycle or the engine reports
// a channel error.
func (r *Registry) waitTC(ctx context.Context, addr uint8, ch int) (tcSample, error) {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return tcSample{}, err
	}
	for {
		d.mu.Lock()
		s := tcSample{
			code:   d.tcCodes[ch],
			slope:  d.cal.Slopes[ch],
			offset: d.cal.Offsets[ch],
			typ:    d.types[ch],
		}
		valid, closed, err := d.tcValid, d.closed, d.tcErr
		d.mu.Unlock()

		switch {
		case closed:
			return tcSample{}, wrapAddr(addr, ErrBadParameter)
		case s.typ == TCDisabled:
			return tcSample{}, wrapAddr(addr, fmt.Errorf("%w: channel %d disabled", ErrBadParameter, ch))
		case err != nil:
			return tcSample{}, wrapAddr(addr, err)
		case valid:
			return s, nil
		}
		if err := r.wait(ctx); err != nil {
			return tcSample{}, err
		}
	}
}

// waitCJC blocks until the board has published CJC codes or the engine
// reports a CJC error.
func (r *Registry) waitCJC(ctx context.Context, d *device) ([NumCJCSensors]uint32, error) {
	for {
		d.mu.Lock()
		codes := d.cjcCodes
		valid, closed, err := d.cjcValid, d.closed, d.cjcErr
		d.mu.Unlock()

		switch {
		case closed:
			return codes, wrapAddr(d.addr, ErrBadParameter)
		case err != nil:
			return codes, wrapAddr(d.addr, err)
		case valid:
			return codes, nil
		}
		if err := r.wait(ctx); err != nil {
			return codes, err
		}
	}
}

// signExtend converts the 24-bit two's complement data field of a code.
func signExtend(code uint32) int32 {
	return int32(code<<8) >> 8
}

// scale converts a code that is neither open nor common-mode.
func (s tcSample) scale(opt ReadOption) float64 {
	v := float64(signExtend(s.code))
	if opt&OptNoCalibrateData == 0 {
		v = v*s.slope + s.offset
	}
	if opt&OptNoScaleData == 0 {
		v *= (referenceVolts / pgaGain) / (MaxCode + 1)
	}
	return v
}

func (s tcSample) open() bool {
	return s.code&openTCMask == openTCCode
}

func (s tcSample) commonMode() bool {
	return s.code&commonModeMask != 0
}

// ReadRaw returns the voltage of a channel, or its code with
// OptNoScaleData. An open input reads as VoltageMax (or the open code), and
// a common-mode error as CommonModeValue when scaling.
func (r *Registry) ReadRaw(ctx context.Context, addr uint8, ch int, opt ReadOption) (float64, error) {
	s, err := r.waitTC(ctx, addr, ch)
	if err != nil {
		return 0, err
	}
	switch {
	case s.open() && opt&OptNoScaleData != 0:
		return float64(openTCCode), nil
	case s.open():
		return openTCVoltage, nil
	case s.commonMode() && opt&OptNoScaleData == 0:
		return CommonModeValue, nil
	}
	return s.scale(opt), nil
}

// ReadCJC returns the cold junction temperature at the terminal of channel
// ch, interpolated from the CJC sensors.
func (r *Registry) ReadCJC(ctx context.Context, addr uint8, ch int) (float64, error) {
	d, err := r.channel(addr, ch, NumChannels)
	if err != nil {
		return 0, err
	}
	codes, err := r.waitCJC(ctx, d)
	if err != nil {
		return 0, err
	}
	return cjcTemperatureFromCode(interpolateCJC(codes, ch)), nil
}

// ReadCJCSensor returns the temperature of a single CJC sensor.
func (r *Registry) ReadCJCSensor(ctx context.Context, addr uint8, sensor int) (float64, error) {
	d, err := r.channel(addr, sensor, NumCJCSensors)
	if err != nil {
		return 0, err
	}
	codes, err := r.waitCJC(ctx, d)
	if err != nil {
		return 0, err
	}
	return cjcTemperatureFromCode(float64(codes[sensor])), nil
}

// ReadTemperature returns the cold junction compensated temperature of a
// channel. Open, common-mode and overrange conditions are reported in the
// Reading status, not as errors.
func (r *Registry) ReadTemperature(ctx context.Context, addr uint8, ch int) (Reading, error) {
	s, err := r.waitTC(ctx, addr, ch)
	if err != nil {
		return Reading{}, err
	}
	switch {
	case s.open():
		return invalidReading(StatusOpenCircuit), nil
	case s.commonMode():
		return invalidReading(StatusCommonModeError), nil
	}
	volts := s.scale(OptDefault)
	if volts > posOverrangeVolts || volts < negOverrangeVolts {
		return invalidReading(StatusOverrange), nil
	}

	cjc, err := r.ReadCJC(ctx, addr, ch)
	if err != nil {
		return Reading{}, err
	}
	t := nist.Type(s.typ)
	cjcMV, err := nist.VoltageFromTemperature(t, cjc)
	if err != nil {
		return Reading{}, wrapAddr(addr, fmt.Errorf("%w: %v", ErrUndefined, err))
	}
	c, err := nist.TemperatureFromVoltage(t, volts*1000+cjcMV)
	if err != nil {
		return Reading{}, wrapAddr(addr, fmt.Errorf("%w: %v", ErrUndefined, err))
	}
	return Reading{Status: StatusOK, Celsius: c}, nil
}

// Dev is a handle to an open board.
type Dev struct {
	r    *Registry
	addr uint8
	once sync.Once
}

func (d *Dev) String() string {
	if d.r.bus == nil {
		return fmt.Sprintf("mcc134(addr %d)", d.addr)
	}
	return fmt.Sprintf("mcc134(addr %d){%s}", d.addr, d.r.bus)
}

func (d *Dev) Address() uint8 {
	return d.addr
}

// Halt releases the handle. Further calls do nothing.
func (d *Dev) Halt() error {
	var err error
	d.once.Do(func() {
		err = d.r.Close(d.addr)
	})
	return err
}

func (d *Dev) SetChannelType(ch int, t TCType) error {
	return d.r.SetChannelType(d.addr, ch, t)
}

func (d *Dev) ReadTemperature(ctx context.Context, ch int) (Reading, error) {
	return d.r.ReadTemperature(ctx, d.addr, ch)
}

var _ conn.Resource = &Dev{}
