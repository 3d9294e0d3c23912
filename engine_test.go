package mcc134

import (
	"errors"
	"testing"
	"time"
)

func newTestEngine(s sampler) (*engine, *device) {
	d := newDevice(0, DefaultCalibration())
	return newEngine(d, s, noSleep, func(string, ...interface{}) {}), d
}

// runCycle steps e until it reaches the idle state.
func runCycle(t *testing.T, e *engine) {
	t.Helper()
	for i := 0; i < 100; i++ {
		e.step()
		if e.state == stateIdle {
			return
		}
	}
	t.Fatalf("Engine did not complete a cycle, state %d", e.state)
}

// finishIdle steps e out of the idle state.
func finishIdle(t *testing.T, e *engine) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		e.step()
		if e.state != stateIdle {
			return
		}
	}
	t.Fatalf("Engine stuck idle")
}

func valid(d *device) (bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tcValid, d.cjcValid
}

func TestSleepBudget(t *testing.T) {
	tests := map[string]struct {
		interval, n, want int
	}{
		"no channels":   {1, 0, 65},
		"one channel":   {1, 1, 54},
		"four channels": {1, 4, 19},
		"slow":          {10, 4, 919},
		"negative":      {0, 4, 0},
	}
	for n, tc := range tests {
		if got := sleepBudget(tc.interval, tc.n); got != tc.want {
			t.Fatalf("%s got %d expected %d", n, got, tc.want)
		}
	}
}

func TestEngineCycle(t *testing.T) {
	s := &fakeSampler{cjc: [NumCJCSensors]uint32{100, 200, 300}}
	e, d := newTestEngine(s)

	runCycle(t, e)
	if tc, cjc := valid(d); !tc || !cjc {
		t.Fatalf("Got valid %v %v after a cycle", tc, cjc)
	}
	if d.cjcCodes != s.cjc {
		t.Fatalf("CJC codes got %v", d.cjcCodes)
	}
	for ch, n := range s.tcRead {
		if n != 0 {
			t.Fatalf("Disabled channel %d read %d times", ch, n)
		}
	}
	if e.budget != 65 {
		t.Fatalf("Budget got %d", e.budget)
	}

	var ticks int
	e.sleep = func(d time.Duration) {
		if d == idleTick {
			ticks++
		}
	}
	finishIdle(t, e)
	if ticks != e.budget {
		t.Fatalf("Idle ticks got %d expected %d", ticks, e.budget)
	}
	if e.state != stateCJCRead {
		t.Fatalf("State after idle got %d", e.state)
	}
}

func TestEngineReset(t *testing.T) {
	s := &fakeSampler{tc: [NumChannels]uint32{11, 22, 33, 44}}
	e, d := newTestEngine(s)
	runCycle(t, e)

	d.setType(1, TypeK)
	if tc, _ := valid(d); tc {
		t.Fatalf("Enabling a channel must invalidate readings")
	}

	// A retype that keeps the channel enabled does not reset.
	d.setType(1, TypeJ)

	e.step()
	if e.enabled != 1 || e.budget != 54 {
		t.Fatalf("Got %d enabled channels, budget %d", e.enabled, e.budget)
	}
	if tc, cjc := valid(d); tc || cjc {
		t.Fatalf("Readings valid before the cycle completed")
	}

	runCycle(t, e)
	if tc, _ := valid(d); !tc {
		t.Fatalf("Readings not valid after a full cycle")
	}
	if s.tcRead != [NumChannels]int{0, 1, 0, 0} {
		t.Fatalf("Channel reads got %v", s.tcRead)
	}
	if d.tcCodes[1] != 22 {
		t.Fatalf("Channel 1 code got %d", d.tcCodes[1])
	}
}

func TestEngineResetDuringCycle(t *testing.T) {
	s := &fakeSampler{}
	e, d := newTestEngine(s)
	for i := 0; i < 4; i++ {
		e.step()
	}
	d.setType(3, TypeT)
	e.step()
	if e.state != stateCJCAdvance || e.cjcIndex != 0 {
		t.Fatalf("Reset did not restart the cycle, state %d index %d", e.state, e.cjcIndex)
	}

	// A reset raised after the last check discards the cycle.
	d.mu.Lock()
	d.reset = true
	d.mu.Unlock()
	e.publish()
	if tc, cjc := valid(d); tc || cjc {
		t.Fatalf("Cycle published despite a pending reset")
	}
}

func TestEngineFilter(t *testing.T) {
	s := &fakeSampler{cjc: [NumCJCSensors]uint32{100, 100, 100}}
	e, d := newTestEngine(s)
	runCycle(t, e)
	finishIdle(t, e)

	s.cjc[0] = 200
	runCycle(t, e)
	if d.cjcCodes[0] != 150 {
		t.Fatalf("Filtered code got %d expected 150", d.cjcCodes[0])
	}
	finishIdle(t, e)

	// Slow intervals use raw codes.
	d.mu.Lock()
	d.interval = 10
	d.mu.Unlock()
	s.cjc[0] = 300
	runCycle(t, e)
	if d.cjcCodes[0] != 300 {
		t.Fatalf("Unfiltered code got %d expected 300", d.cjcCodes[0])
	}
}

func TestEngineErrors(t *testing.T) {
	s := &fakeSampler{}
	e, d := newTestEngine(s)
	var logged int
	e.logf = func(string, ...interface{}) { logged++ }

	s.setErr(&commsError{errors.New("spi: broken")})
	e.step()
	e.step()
	if e.state != stateCJCRead {
		t.Fatalf("Failed read advanced to state %d", e.state)
	}
	if !errors.Is(d.cjcErr, ErrCommsFailure) {
		t.Fatalf("CJC error got %v", d.cjcErr)
	}
	if logged != 1 {
		t.Fatalf("Logged %d times", logged)
	}

	s.setErr(nil)
	e.step()
	if d.cjcErr != nil || logged != 2 {
		t.Fatalf("Error not cleared: %v, logged %d", d.cjcErr, logged)
	}

	d.setType(0, TypeK)
	runCycle(t, e)
	finishIdle(t, e)
	for e.state != stateTCRead {
		e.step()
	}
	s.setErr(ErrLockTimeout)
	e.step()
	if !errors.Is(d.tcErr, ErrLockTimeout) || e.state != stateTCRead {
		t.Fatalf("TC error got %v in state %d", d.tcErr, e.state)
	}
}

func TestEngineStops(t *testing.T) {
	e, _ := newTestEngine(&fakeSampler{})
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.run(stop)
		close(done)
	}()
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Engine did not stop")
	}
}
