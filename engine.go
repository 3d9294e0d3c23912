package mcc134

import (
	"time"
)

// sampler performs single conversions on one board.
type sampler interface {
	readCJCCode(sensor int) (uint32, error)
	readTCCode(ch int) (uint32, error)
}

type engineState int

const (
	stateCJCRead engineState = iota
	stateCJCAdvance
	stateTCRead
	stateTCAdvance
	stateIdle
)

// engine continuously samples the CJC sensors and the enabled channels of a
// board and publishes the codes into its device record. Its fields are owned
// by the goroutine running it.
type engine struct {
	dev   *device
	s     sampler
	sleep func(time.Duration)
	logf  LogPrintf

	state    engineState
	cjcIndex int
	tcIndex  int
	types    [NumChannels]TCType
	enabled  int
	cjcCodes [NumCJCSensors]uint32
	tcCodes  [NumChannels]uint32
	filter   cjcFilter

	// Inputs of the current sleep budget.
	interval       int
	budgetChannels int
	budget         int
	idle           int
}

func newEngine(d *device, s sampler, sleep func(time.Duration), logf LogPrintf) *engine {
	e := &engine{
		dev:   d,
		s:     s,
		sleep: sleep,
		logf:  logf,
	}
	e.filter.reset()
	return e
}

// run steps the state machine until stop is closed. Stop is observed between
// steps, so the latency is at most one conversion or idle tick.
func (e *engine) run(stop <-chan struct{}) {
	for {
		e.step()
		select {
		case <-stop:
			return
		default:
		}
	}
}

// sleepBudget returns the number of idle ticks that fill a cycle of interval
// seconds with n enabled channels.
func sleepBudget(interval, n int) int {
	busy := time.Duration(n)*tcConversionTime +
		NumCJCSensors*cjcConversionTime +
		(NumCJCSensors-1)*cjcInterTime
	if n > 0 {
		busy += time.Duration(n-1) * tcInterTime
	}
	left := time.Duration(interval)*time.Second - busy
	if left < 0 {
		return 0
	}
	return int(left / idleTick)
}

func (e *engine) sync() {
	d := e.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reset {
		e.state = stateCJCRead
		e.cjcIndex = 0
		e.tcIndex = 0
		d.tcValid = false
		d.cjcValid = false
		e.enabled = 0
		for _, t := range d.types {
			if t != TCDisabled {
				e.enabled++
			}
		}
		d.reset = false
	}
	e.types = d.types

	if e.interval != d.interval || e.budgetChannels != e.enabled {
		e.interval = d.interval
		e.budgetChannels = e.enabled
		e.budget = sleepBudget(e.interval, e.enabled)
		e.filter.reset()
	}
}

// record stores the result of a conversion for readers, logging only when
// the group goes from working to failing or back.
func (e *engine) record(group string, dst *error, err error) {
	e.dev.mu.Lock()
	prev := *dst
	*dst = err
	e.dev.mu.Unlock()

	switch {
	case err != nil && prev == nil:
		e.logf("address %d %s read failed: %v", e.dev.addr, group, err)
	case err == nil && prev != nil:
		e.logf("address %d %s read recovered", e.dev.addr, group)
	}
}

func (e *engine) step() {
	e.sync()

	switch e.state {
	case stateCJCRead:
		code, err := e.s.readCJCCode(e.cjcIndex)
		e.record("CJC", &e.dev.cjcErr, err)
		if err != nil {
			e.sleep(idleTick)
			return
		}
		if e.interval <= cjcFilterMaxInterval {
			code = e.filter.add(e.cjcIndex, code)
		}
		e.cjcCodes[e.cjcIndex] = code
		e.state = stateCJCAdvance

	case stateCJCAdvance:
		e.cjcIndex++
		if e.cjcIndex < NumCJCSensors {
			e.state = stateCJCRead
			e.sleep(cjcInterTime)
			return
		}
		e.cjcIndex = 0
		e.filter.advance()
		e.state = stateTCRead

	case stateTCRead:
		if e.types[e.tcIndex] == TCDisabled {
			e.state = stateTCAdvance
			return
		}
		code, err := e.s.readTCCode(e.tcIndex)
		e.record("TC", &e.dev.tcErr, err)
		if err != nil {
			e.sleep(idleTick)
			return
		}
		e.tcCodes[e.tcIndex] = code
		e.state = stateTCAdvance

	case stateTCAdvance:
		e.tcIndex++
		if e.tcIndex < NumChannels {
			e.state = stateTCRead
			e.sleep(tcInterTime)
			return
		}
		e.tcIndex = 0
		e.publish()
		e.idle = 0
		e.state = stateIdle

	case stateIdle:
		if e.idle < e.budget {
			e.idle++
			e.sleep(idleTick)
			return
		}
		e.state = stateCJCRead

	default:
		e.state = stateCJCRead
	}
}

// publish copies a complete cycle into the device record. A reset requested
// during the cycle discards it.
func (e *engine) publish() {
	d := e.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cjcCodes = e.cjcCodes
	d.tcCodes = e.tcCodes
	if !d.reset {
		d.cjcValid = true
		d.tcValid = true
	}
}
