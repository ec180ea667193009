package drivers

import (
	"testing"

	"github.com/jnnycn007/openocd/jtag"
	"github.com/jnnycn007/openocd/tap"
)

func TestLoopbackIRRoundTrip(t *testing.T) {
	lb := &Loopback{}
	e := jtag.New(lb.JTAGDriver())

	buf := []byte{0x9}
	if err := e.Scan(true, jtag.ScanInOut, buf, 4, tap.Idle); err != nil {
		t.Fatal(err)
	}
	// Direct TDI->TDO echo: capture equals what was driven in.
	if buf[0] != 0x9 {
		t.Fatalf("captured = %#x, want loopback of 0x9", buf[0])
	}
}

func TestLoopbackSWDHoldsLastDrivenLevel(t *testing.T) {
	lb := &Loopback{}
	drv := lb.SWDDriver()

	if err := drv.DriveSWDIO(true); err != nil {
		t.Fatal(err)
	}
	if err := drv.Write(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := drv.Write(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := drv.DriveSWDIO(false); err != nil {
		t.Fatal(err)
	}
	lvl, err := drv.ReadSWDIO()
	if err != nil {
		t.Fatal(err)
	}
	if !lvl {
		t.Fatal("expected the line to hold the last driven level after release")
	}

	// While released, further Write calls must not change what is read
	// back (the engine no longer owns the line).
	if err := drv.Write(0, 0); err != nil {
		t.Fatal(err)
	}
	lvl, _ = drv.ReadSWDIO()
	if !lvl {
		t.Fatal("SWDIO changed while the driver did not own the line")
	}
}
