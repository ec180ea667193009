package enginectx_test

import (
	"testing"

	"github.com/jnnycn007/openocd/drivers"
	"github.com/jnnycn007/openocd/enginectx"
	"github.com/jnnycn007/openocd/jtag"
	"github.com/jnnycn007/openocd/swd"
	"github.com/jnnycn007/openocd/tap"
)

func TestEngineDispatchesJTAGAndSWDIndependently(t *testing.T) {
	lb := &drivers.Loopback{}
	e := enginectx.New(lb.JTAGDriver(), lb.SWDDriver())

	buf := []byte{0x5}
	cmds := []jtag.Command{
		&jtag.Scan{IRScan: false, Type: jtag.ScanInOut, Buffer: buf, Bits: 4, EndState: tap.Idle},
	}
	if err := e.Dispatch(cmds); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x5 {
		t.Fatalf("captured = %#x, want 0x5 (loopback echo)", buf[0])
	}

	if err := e.SWD.SwitchSeq(swd.JTAGToSWD); err != nil {
		t.Fatal(err)
	}
	if e.SWD.StickyError() != nil {
		t.Fatalf("sticky = %v, want nil", e.SWD.StickyError())
	}
}

func TestFacadeDelegatesToDefaultEngine(t *testing.T) {
	lb := &drivers.Loopback{}
	enginectx.Init(lb.JTAGDriver(), lb.SWDDriver())

	if enginectx.CurrentState() != tap.Reset {
		t.Fatalf("initial state = %s, want TAP_RESET", enginectx.CurrentState())
	}

	cmds := []jtag.Command{jtag.StateMove{EndState: tap.Idle}}
	if err := enginectx.Dispatch(cmds); err != nil {
		t.Fatal(err)
	}
	if enginectx.CurrentState() != tap.Idle {
		t.Fatalf("state = %s, want IDLE", enginectx.CurrentState())
	}

	if err := enginectx.RunQueue(); err != nil {
		t.Fatal(err)
	}
	if enginectx.StickyError() != nil {
		t.Fatal("sticky error should be nil after a fresh RunQueue")
	}
}
