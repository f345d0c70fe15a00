package buzzer

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/ironsheep/blob-alert/internal/log"
)

// DefaultPin is the BCM name of the pin the buzzer is wired to.
const DefaultPin = "GPIO22"

// ErrPinNotFound is returned when the named pin is not registered on the host.
var ErrPinNotFound = errors.New("gpio pin not found")

// GPIO drives a buzzer on a digital output pin. Active is a high level.
type GPIO struct {
	mu    sync.Mutex
	pin   gpio.PinOut
	state bool
	known bool
}

// OpenGPIO initializes the host drivers and claims the named pin as an
// output, starting low.
func OpenGPIO(name string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize gpio host: %w", err)
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}

	return NewGPIO(p)
}

// NewGPIO wraps an already resolved pin and drives it low.
func NewGPIO(pin gpio.PinOut) (*GPIO, error) {
	g := &GPIO{pin: pin}
	if err := g.Set(false); err != nil {
		return nil, err
	}
	log.Debug("gpio output ready", "pin", pin.Name())
	return g, nil
}

// Set drives the pin high when active, low otherwise. The level is written
// on every call.
func (g *GPIO) Set(active bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	level := gpio.Low
	if active {
		level = gpio.High
	}
	if err := g.pin.Out(level); err != nil {
		return fmt.Errorf("failed to set %s %s: %w", g.pin.Name(), level, err)
	}

	if !g.known || g.state != active {
		log.Debug("buzzer", "pin", g.pin.Name(), "active", active)
	}
	g.state, g.known = active, true
	return nil
}

// Close halts the pin. The output level is left as last written.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.pin.Halt(); err != nil {
		return fmt.Errorf("failed to release %s: %w", g.pin.Name(), err)
	}
	return nil
}
