package dimmer

import (
	"errors"
	"sync"

	"starlight/core"
)

// ErrAlreadyCreated is returned by Setup once Instance has built the switch.
var ErrAlreadyCreated = errors.New("dimmer: instance already created")

// lazySwitch is a switch built once, on first use, from the registered
// drivers. A failed build is remembered and every later get panics with
// the same reason.
type lazySwitch struct {
	mu      sync.Mutex
	cfg     Config
	created bool

	once    sync.Once
	sw      *Switch
	failure any
}

var singleton = lazySwitch{cfg: DefaultConfig()}

func (l *lazySwitch) setup(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.created {
		return ErrAlreadyCreated
	}
	l.cfg = cfg
	return nil
}

func (l *lazySwitch) get() *Switch {
	l.once.Do(func() {
		l.mu.Lock()
		cfg := l.cfg
		l.created = true
		l.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				l.failure = r
			}
		}()
		l.sw = build(cfg)
	})
	if l.sw == nil {
		panic(l.failure)
	}
	return l.sw
}

func build(cfg Config) *Switch {
	bus, err := core.MustI2C().Bus(cfg.Bus)
	if err != nil {
		panic("dimmer: I2C bus " + core.Itoa(int(cfg.Bus)) + ": " + err.Error())
	}
	sw, err := New(cfg, bus, core.MustGPIO(), core.SystemClock{})
	if err != nil {
		panic("dimmer: " + err.Error())
	}
	return sw
}

// Setup sets the configuration used by Instance. It must be called before
// the first Instance call.
func Setup(cfg Config) error {
	return singleton.setup(cfg)
}

// Instance returns the process-wide switch, building it on first use from
// the registered I2C and GPIO drivers. It panics when a driver is missing,
// and keeps panicking on every later call.
func Instance() DimmerSwitch {
	return singleton.get()
}
