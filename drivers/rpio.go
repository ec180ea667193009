package drivers

import (
	"github.com/stianeikeland/go-rpio/v4"
)

// Rpio is a RawPinDriver backed by github.com/stianeikeland/go-rpio/v4,
// direct /dev/gpiomem register access on a Raspberry Pi. Adapted from the
// teacher's JtagPinDriverRpio.
type Rpio struct{}

func (d *Rpio) Open() error  { return rpio.Open() }
func (d *Rpio) Close() error { return rpio.Close() }

func (d *Rpio) Write(pin Pin, high bool) {
	if high {
		rpio.WritePin(rpio.Pin(pin), rpio.High)
	} else {
		rpio.WritePin(rpio.Pin(pin), rpio.Low)
	}
}

func (d *Rpio) Read(pin Pin) bool {
	return rpio.ReadPin(rpio.Pin(pin)) == rpio.High
}

func (d *Rpio) SetOutput(pin Pin) { rpio.PinMode(rpio.Pin(pin), rpio.Output) }
func (d *Rpio) SetInput(pin Pin)  { rpio.PinMode(rpio.Pin(pin), rpio.Input) }
func (d *Rpio) PullUp(pin Pin)    { rpio.PullMode(rpio.Pin(pin), rpio.PullUp) }
func (d *Rpio) PullOff(pin Pin)   { rpio.PullMode(rpio.Pin(pin), rpio.PullOff) }
