package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/swayfader/internal/config"
	"github.com/yourusername/swayfader/internal/fade"
	"github.com/yourusername/swayfader/internal/focus"
	"github.com/yourusername/swayfader/internal/logging"
	"github.com/yourusername/swayfader/internal/server"
	"github.com/yourusername/swayfader/internal/state"
	"github.com/yourusername/swayfader/internal/types"
)

// ErrStreamClosed is returned by Run when the compositor stops sending events
var ErrStreamClosed = errors.New("event stream closed")

// Compositor is what the daemon needs from the window manager
type Compositor interface {
	server.TreeSource
	fade.Port
	Subscribe(ctx context.Context) (<-chan types.Event, error)
}

// Daemon feeds window events through the resolver into the fade engine
type Daemon struct {
	sway     Compositor
	resolver *focus.Resolver
	engine   *fade.Engine
	tracker  *state.Tracker
}

// New creates a daemon using the given settings
func New(sway Compositor, settings config.Settings) *Daemon {
	return &Daemon{
		sway:     sway,
		resolver: focus.NewResolver(settings),
		engine:   fade.NewEngine(sway, settings.Tick.Duration),
		tracker:  state.NewTracker(),
	}
}

// Run applies resting opacities to every existing window and then handles
// window events one at a time until ctx is cancelled or the stream ends
func (d *Daemon) Run(ctx context.Context) error {
	defer d.engine.Stop()

	snap, err := server.Fetch(ctx, d.sway)
	if err != nil {
		return fmt.Errorf("startup snapshot: %w", err)
	}
	d.apply(d.resolver.Startup(d.tracker, snap.TypedWindows()))

	started := logging.Info().
		Int("windows", len(snap.Windows)).
		Int64("focused", snap.FocusedWindowID)
	if d.tracker.Active != nil {
		started = started.Int64("active", d.tracker.Active.ID)
	}
	started.Msg("initialized existing windows")

	events, err := d.sway.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("shutting down")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrStreamClosed
			}
			if err := d.handle(ev); err != nil {
				if errors.Is(err, focus.ErrNoActiveWindow) {
					return fmt.Errorf("%s event for window %d: %w", ev.Type, ev.Window.ID, err)
				}
				logging.Error().Str("event", string(ev.Type)).Int64("window_id", ev.Window.ID).Err(err).Msg("event failed")
			}
		}
	}
}

func (d *Daemon) handle(ev types.Event) error {
	reqs, err := d.resolver.Resolve(d.tracker, ev)
	if err != nil {
		return err
	}

	logging.Debug().
		Str("event", string(ev.Type)).
		Int64("window_id", ev.Window.ID).
		Str("kind", ev.Window.Kind.String()).
		Str("window", ev.Window.Label()).
		Int("requests", len(reqs)).
		Msg("event")

	d.apply(reqs)
	return nil
}

func (d *Daemon) apply(reqs []types.FadeRequest) {
	for _, req := range reqs {
		d.engine.RequestFade(req)
	}
}
