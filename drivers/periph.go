package drivers

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// periphPin is the slice of gpio.PinIO this driver actually uses. Keeping
// it narrow (rather than storing gpio.PinIO directly) lets tests supply a
// fake pin without implementing periph.io's full PinIO method set — any
// gpio.PinIO value satisfies this interface structurally, so Open needs no
// adapting code.
type periphPin interface {
	Out(l gpio.Level) error
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
}

// Periph is a RawPinDriver backed by periph.io's gpioreg registry, usable
// on any host periph.io/x/host/v3 supports (not just Raspberry Pi). Pin
// values are resolved as names (e.g. "GPIO4") at Open via PinNames.
type Periph struct {
	// PinNames maps each Pin value this driver is asked to operate on to
	// the periph.io pin name gpioreg.ByName expects.
	PinNames map[Pin]string

	lines map[Pin]periphPin
}

func (d *Periph) Open() error {
	if _, err := host.Init(); err != nil {
		return err
	}
	d.lines = make(map[Pin]periphPin, len(d.PinNames))
	for pin, name := range d.PinNames {
		line := gpioreg.ByName(name)
		if line == nil {
			return fmt.Errorf("drivers: periph pin %q not found", name)
		}
		d.lines[pin] = line
	}
	return nil
}

func (d *Periph) Close() error { return nil }

func (d *Periph) line(pin Pin) periphPin {
	l, ok := d.lines[pin]
	if !ok {
		panic(fmt.Sprintf("drivers: pin %d was never registered via PinNames", pin))
	}
	return l
}

func (d *Periph) Write(pin Pin, high bool) {
	lvl := gpio.Low
	if high {
		lvl = gpio.High
	}
	_ = d.line(pin).Out(lvl)
}

func (d *Periph) Read(pin Pin) bool {
	return d.line(pin).Read() == gpio.High
}

func (d *Periph) SetOutput(pin Pin) { _ = d.line(pin).Out(gpio.Low) }
func (d *Periph) SetInput(pin Pin)  { _ = d.line(pin).In(gpio.PullNoChange, gpio.NoEdge) }
func (d *Periph) PullUp(pin Pin)    { _ = d.line(pin).In(gpio.PullUp, gpio.NoEdge) }
func (d *Periph) PullOff(pin Pin)   { _ = d.line(pin).In(gpio.Float, gpio.NoEdge) }
