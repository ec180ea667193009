package jtag

import (
	"errors"
	"testing"
	"time"

	"github.com/jnnycn007/openocd/tap"
)

// capableDriver adds the optional Blinker/Flusher/Sleeper capabilities on
// top of fakeDriver so Dispatch's type-assertion paths can be exercised.
type capableDriver struct {
	fakeDriver
	blinks   []bool
	flushes  int
	flushErr error
	sleeps   []uint32
	sleepErr error
}

func (c *capableDriver) Blink(on bool) error {
	c.blinks = append(c.blinks, on)
	return nil
}

func (c *capableDriver) Flush() error {
	c.flushes++
	return c.flushErr
}

func (c *capableDriver) Sleep(microseconds uint32) error {
	c.sleeps = append(c.sleeps, microseconds)
	return c.sleepErr
}

func TestDispatchBlinkEnvelope(t *testing.T) {
	drv := &capableDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{StateMove{EndState: tap.DRShift}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if want := []bool{true, false}; !boolsEqual(drv.blinks, want) {
		t.Fatalf("blinks = %v, want %v", drv.blinks, want)
	}
}

func TestDispatchBlinkEnvelopeClosesOnError(t *testing.T) {
	drv := &capableDriver{fakeDriver: fakeDriver{writeErr: errors.New("bus fault")}}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{StateMove{EndState: tap.DRShift}}
	if err := Dispatch(e, cmds); err == nil {
		t.Fatal("expected error")
	}
	if want := []bool{true, false}; !boolsEqual(drv.blinks, want) {
		t.Fatalf("blinks = %v, want %v (Blink(false) must still run on early exit)", drv.blinks, want)
	}
}

func TestDispatchStateMove(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{StateMove{EndState: tap.DRShift}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if e.State() != tap.DRShift {
		t.Fatalf("state = %s, want DRSHIFT", e.State())
	}
}

func TestDispatchPathMove(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	path := []tap.State{tap.DRSelect, tap.DRCapture, tap.DRShift}
	cmds := []Command{PathMove{Path: path}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if e.State() != tap.DRShift {
		t.Fatalf("state = %s, want DRSHIFT", e.State())
	}
}

func TestDispatchRuntest(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{Runtest{Cycles: 5, EndState: tap.Idle}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if e.State() != tap.Idle {
		t.Fatalf("state = %s, want IDLE", e.State())
	}
}

func TestDispatchStableClocks(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{StableClocks{Cycles: 3}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if len(drv.edges) != 6 {
		t.Fatalf("edges = %d, want 6 (3 cycles x 2 edges)", len(drv.edges))
	}
}

func TestDispatchScan(t *testing.T) {
	drv := &fakeDriver{tdo: []int{1, 0, 0, 0}}
	e := New(drv)
	e.current = tap.Idle

	buf := []byte{0x9}
	cmds := []Command{&Scan{IRScan: true, Type: ScanInOut, Buffer: buf, Bits: 4, EndState: tap.Idle}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x1 {
		t.Fatalf("captured = %#x, want 0x1", buf[0])
	}
}

func TestDispatchScanValidateLatchesErrQueueFailedAndContinues(t *testing.T) {
	scanOnly := &fakeDriver{tdo: []int{1, 0, 0, 0}}
	e1 := New(scanOnly)
	e1.current = tap.Idle
	scanCmd := func(buf []byte) *Scan {
		return &Scan{IRScan: true, Type: ScanInOut, Buffer: buf, Bits: 4, EndState: tap.Idle}
	}
	if err := Dispatch(e1, []Command{scanCmd([]byte{0x9})}); err != nil {
		t.Fatal(err)
	}
	scanOnlyEdges := len(scanOnly.edges)

	drv := &fakeDriver{tdo: []int{1, 0, 0, 0}}
	e := New(drv)
	e.current = tap.Idle
	failing := scanCmd([]byte{0x9})
	failing.Validate = func(b []byte) error { return errors.New("unexpected capture") }
	cmds := []Command{failing, StableClocks{Cycles: 2}}
	err := Dispatch(e, cmds)
	if !errors.Is(err, ErrQueueFailed) {
		t.Fatalf("err = %v, want ErrQueueFailed", err)
	}
	// StableClocks after the failing Scan must still have run: 2 more
	// cycles means 4 more edges than the scan alone produced.
	if got, want := len(drv.edges), scanOnlyEdges+4; got != want {
		t.Fatalf("edges = %d, want %d (StableClocks after a Validate failure did not run)", got, want)
	}
}

func TestDispatchSleepFlushesThenSleeps(t *testing.T) {
	drv := &capableDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{Sleep{Microseconds: 1500}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if drv.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", drv.flushes)
	}
	if want := []uint32{1500}; !uint32sEqual(drv.sleeps, want) {
		t.Fatalf("sleeps = %v, want %v", drv.sleeps, want)
	}
}

func TestDispatchSleepFallsBackToTimeSleepWithoutSleeper(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	start := time.Now()
	cmds := []Command{Sleep{Microseconds: 1}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) <= 0 {
		t.Fatal("expected some time to elapse")
	}
}

func TestDispatchTMS(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	cmds := []Command{TMS{Bits: []byte{0b101}, Count: 3}}
	if err := Dispatch(e, cmds); err != nil {
		t.Fatal(err)
	}
	if got, want := drv.pulses(), []int{1, 0, 1}; !intsEqual(got, want) {
		t.Fatalf("tms sequence = %v, want %v", got, want)
	}
}

func TestDispatchUnknownCommandPanicsWithProtocolError(t *testing.T) {
	drv := &fakeDriver{}
	e := New(drv)
	e.current = tap.Idle

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unknown command type")
		}
		var pe *ProtocolError
		if !errors.As(toError(r), &pe) {
			t.Fatalf("recovered value %v is not a *ProtocolError", r)
		}
	}()
	_ = Dispatch(e, []Command{unknownCommand{}})
}

// unknownCommand implements Command but is not one of the tags dispatchOne
// knows about, to exercise the default-case ProtocolError panic.
type unknownCommand struct{}

func (unknownCommand) isCommand() {}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uint32sEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
