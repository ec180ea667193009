// Package drivers' Gpiod backend requires libgpiod's headers and shared
// library at build time (cgo, pkg-config). Build with `-tags gpiod` on a
// machine that has them; the rest of this package has no such requirement.

//go:build gpiod

package drivers

// #cgo pkg-config: libgpiod
// #include <gpiod.h>
// #include <stdlib.h>
import "C"
import (
	"fmt"
	"unsafe"
)

// gpiodLine is the slice of libgpiod's per-line operations this driver
// actually uses. Routing Gpiod through this interface (instead of holding
// *C.struct_gpiod_line directly) lets gpiod_test.go exercise the pin-
// multiplexing and direction bookkeeping below with a fake line, without
// a real gpiochip device.
type gpiodLine interface {
	setValue(high bool)
	value() (bool, error)
	requestOutput(consumer string, initial bool)
	requestInput(consumer string)
	release()
}

// gpiodChip opens and releases lines on one gpiochip device.
type gpiodChip interface {
	openLine(offset uint32) (gpiodLine, error)
	close()
}

// cChip and cLine are the real cgo-backed implementations of gpiodChip and
// gpiodLine. Adapted from the teacher's JtagPinDriverGpiod, which called
// the same gpiod_chip_*/gpiod_line_* functions directly inline.
type cChip struct{ ctx *C.struct_gpiod_chip }

func openCChip(number uint) (*cChip, error) {
	ctx := C.gpiod_chip_open_by_number(C.uint(number))
	if ctx == nil {
		return nil, fmt.Errorf("drivers: can't open gpio chip #%d", number)
	}
	return &cChip{ctx: ctx}, nil
}

func (c *cChip) openLine(offset uint32) (gpiodLine, error) {
	l := C.gpiod_chip_get_line(c.ctx, C.uint(offset))
	if l == nil {
		return nil, fmt.Errorf("drivers: can't reserve gpiod line #%d", offset)
	}
	return &cLine{line: l}, nil
}

func (c *cChip) close() { C.gpiod_chip_close(c.ctx) }

type cLine struct{ line *C.struct_gpiod_line }

func (l *cLine) setValue(high bool) {
	v := C.int(0)
	if high {
		v = 1
	}
	C.gpiod_line_set_value(l.line, v)
}

func (l *cLine) value() (bool, error) {
	v := C.gpiod_line_get_value(l.line)
	if v == -1 {
		return false, fmt.Errorf("drivers: can't read gpiod line")
	}
	return v == 1, nil
}

func (l *cLine) requestOutput(consumer string, initial bool) {
	name := C.CString(consumer)
	defer C.free(unsafe.Pointer(name))
	v := C.int(0)
	if initial {
		v = 1
	}
	C.gpiod_line_request_output(l.line, name, v)
}

func (l *cLine) requestInput(consumer string) {
	name := C.CString(consumer)
	defer C.free(unsafe.Pointer(name))
	C.gpiod_line_request_input(l.line, name)
}

func (l *cLine) release() { C.gpiod_line_release(l.line) }

// Gpiod is a RawPinDriver backed by libgpiod's character-device line API.
// Adapted from the teacher's JtagPinDriverGpiod: lines are reserved lazily
// on first use and released together on Close.
type Gpiod struct {
	Chip uint

	chip  gpiodChip
	lines map[Pin]gpiodLine
}

func (d *Gpiod) Open() error {
	chip, err := openCChip(d.Chip)
	if err != nil {
		return err
	}
	d.chip = chip
	d.lines = make(map[Pin]gpiodLine)
	return nil
}

func (d *Gpiod) Close() error {
	for _, l := range d.lines {
		l.release()
	}
	d.chip.close()
	return nil
}

func (d *Gpiod) line(pin Pin) gpiodLine {
	l, ok := d.lines[pin]
	if !ok {
		var err error
		l, err = d.chip.openLine(uint32(pin))
		if err != nil {
			panic(err)
		}
		d.lines[pin] = l
	}
	return l
}

// reacquire releases and re-opens pin's line, needed before changing
// direction: libgpiod requires a fresh line handle per direction request.
func (d *Gpiod) reacquire(pin Pin) gpiodLine {
	if l, ok := d.lines[pin]; ok {
		l.release()
		delete(d.lines, pin)
	}
	return d.line(pin)
}

func (d *Gpiod) Write(pin Pin, high bool) { d.line(pin).setValue(high) }

func (d *Gpiod) Read(pin Pin) bool {
	v, err := d.line(pin).value()
	if err != nil {
		panic(err)
	}
	return v
}

const gpiodConsumer = "openocd-jtag-swd"

func (d *Gpiod) SetOutput(pin Pin) { d.reacquire(pin).requestOutput(gpiodConsumer, true) }
func (d *Gpiod) SetInput(pin Pin)  { d.reacquire(pin).requestInput(gpiodConsumer) }

// PullUp and PullOff are no-ops: the libgpiod v1 line-request API this
// backend targets has no bias control (matches the teacher's driver,
// which leaves both empty for the same reason).
func (d *Gpiod) PullUp(pin Pin)  {}
func (d *Gpiod) PullOff(pin Pin) {}
