package fade

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/swayfader/internal/logging"
	"github.com/yourusername/swayfader/internal/types"
)

// Port sets window opacity in the window manager. Calls may fail when the
// window is gone; the engine logs and carries on.
type Port interface {
	SetOpacity(ctx context.Context, windowID int64, opacity float64) error
}

// fade is one in-flight animation
type fade struct {
	window  types.Window
	opacity float64
	rate    float64 // signed change per tick
	target  float64
}

// done reports whether the fade reached or passed its target
func (f *fade) done() bool {
	return (f.rate > 0 && f.opacity >= f.target) || (f.rate < 0 && f.opacity <= f.target)
}

const sendStripes = 32

type command struct {
	window  types.Window
	opacity float64
}

// Engine animates window opacity in fixed ticks. At most one fade exists per
// window; a new request for the same window replaces the old one. The tick
// loop runs only while fades are pending.
type Engine struct {
	port Port
	tick time.Duration

	mu      sync.Mutex
	fades   map[int64]*fade
	running bool
	stopped bool
	stopCh  chan struct{}

	// A window's frame is computed and sent under its stripe, so an
	// immediate set is never followed by a stale frame for that window.
	// Other windows are not held up by a slow send.
	sendMu [sendStripes]sync.Mutex

	spawn func(func())
}

// NewEngine creates a new fade engine ticking every tick
func NewEngine(port Port, tick time.Duration) *Engine {
	return &Engine{
		port:   port,
		tick:   tick,
		fades:  make(map[int64]*fade),
		stopCh: make(chan struct{}),
		spawn:  func(fn func()) { go fn() },
	}
}

// RequestFade starts, replaces, or immediately applies an opacity change
func (e *Engine) RequestFade(req types.FadeRequest) {
	if req.Immediate() {
		lock := e.sendLock(req.Window.ID)
		lock.Lock()
		defer lock.Unlock()

		e.mu.Lock()
		delete(e.fades, req.Window.ID)
		e.mu.Unlock()

		e.apply(command{window: req.Window, opacity: req.To})
		return
	}

	rate := (e.tick.Seconds() / req.Duration.Seconds()) * (req.To - req.From)

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.fades[req.Window.ID] = &fade{
		window:  req.Window,
		opacity: req.From,
		rate:    rate,
		target:  req.To,
	}
	start := !e.running
	e.running = true
	e.mu.Unlock()

	logging.Debug().
		Int64("window_id", req.Window.ID).
		Float64("from", req.From).
		Float64("to", req.To).
		Dur("duration", req.Duration).
		Msg("fade requested")

	if start {
		e.spawn(e.loop)
	}
}

// Set applies an opacity immediately, dropping any fade for the window
func (e *Engine) Set(w types.Window, opacity float64) {
	e.RequestFade(types.FadeRequest{Window: w, From: opacity, To: opacity})
}

// loop ticks until no fades remain or the engine is stopped
func (e *Engine) loop() {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			if !e.step() {
				return
			}
		}
	}
}

// step advances every fade by one tick and issues the resulting commands.
// Completed fades are snapped to their exact target and removed. Returns
// false once nothing is pending; the loop is marked stopped in the same
// critical section so a concurrent request starts a fresh one.
func (e *Engine) step() bool {
	e.mu.Lock()
	ids := make([]int64, 0, len(e.fades))
	for id := range e.fades {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.advance(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	more := len(e.fades) > 0
	if !more {
		e.running = false
	}
	return more
}

// advance moves one window's fade a tick and sends the frame. A fade
// dropped or replaced since the tick began is read fresh here.
func (e *Engine) advance(id int64) {
	lock := e.sendLock(id)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	f, ok := e.fades[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	f.opacity += f.rate
	cmd := command{window: f.window, opacity: f.opacity}
	if f.done() {
		cmd.opacity = f.target
		delete(e.fades, id)
	}
	e.mu.Unlock()

	e.apply(cmd)
}

func (e *Engine) sendLock(id int64) *sync.Mutex {
	return &e.sendMu[uint64(id)%sendStripes]
}

// apply issues one opacity command; failures are logged, never returned
func (e *Engine) apply(cmd command) {
	if err := e.port.SetOpacity(context.Background(), cmd.window.ID, cmd.opacity); err != nil {
		logging.Warn().
			Int64("window_id", cmd.window.ID).
			Str("window", cmd.window.Label()).
			Float64("opacity", cmd.opacity).
			Err(err).
			Msg("failed to set opacity")
	}
}

// Pending returns the number of in-flight fades
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fades)
}

// Running reports whether the tick loop is active
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Stop ends the tick loop; later fade requests are dropped and
// immediate sets still go through
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}
	e.stopped = true
	e.running = false
	e.fades = make(map[int64]*fade)
	close(e.stopCh)
}
