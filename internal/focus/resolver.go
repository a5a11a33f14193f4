package focus

import (
	"errors"
	"fmt"

	"github.com/yourusername/swayfader/internal/config"
	"github.com/yourusername/swayfader/internal/state"
	"github.com/yourusername/swayfader/internal/types"
)

// ErrNoActiveWindow is returned when an event needs the active window
// before any window has been focused
var ErrNoActiveWindow = errors.New("no active window")

// Resolver turns window events into fade requests and role updates.
// It does no I/O; the caller hands the requests to the fade engine.
type Resolver struct {
	opacity   config.Opacity
	durations config.Durations
}

// NewResolver creates a resolver using the given tunables
func NewResolver(s config.Settings) *Resolver {
	return &Resolver{
		opacity:   s.Opacity,
		durations: s.Durations,
	}
}

func (r *Resolver) baseline(kind types.Kind, role types.Role) float64 {
	return r.opacity.Baseline(kind, role)
}

func fade(w types.Window, from, to float64, d config.Duration) types.FadeRequest {
	return types.FadeRequest{Window: w, From: from, To: to, Duration: d.Duration}
}

func set(w types.Window, v float64) types.FadeRequest {
	return types.FadeRequest{Window: w, From: v, To: v}
}

// Startup sets every existing window to its resting opacity and seeds the
// tracker from the focused and floating windows. No fades are used.
func (r *Resolver) Startup(tr *state.Tracker, windows []types.Window) []types.FadeRequest {
	reqs := make([]types.FadeRequest, 0, len(windows))
	for _, w := range windows {
		role := types.RoleInactive
		if w.Focused {
			role = types.RoleActive
			tr.Activate(w)
		}
		if w.IsFloating() {
			tr.SetFloating(w.ID, true)
		}
		reqs = append(reqs, set(w, r.baseline(w.Kind, role)))
	}
	return reqs
}

// Resolve applies one event to the tracker and returns the resulting
// fade requests in the order they should be issued
func (r *Resolver) Resolve(tr *state.Tracker, ev types.Event) ([]types.FadeRequest, error) {
	switch ev.Type {
	case types.EventFocus:
		return r.focusChanged(tr, ev.Window), nil
	case types.EventNew:
		return r.windowCreated(tr, ev.Window), nil
	case types.EventFloating:
		return r.floatingToggled(tr, ev.Window)
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func (r *Resolver) focusChanged(tr *state.Tracker, w types.Window) []types.FadeRequest {
	if tr.Active == nil {
		tr.Activate(w)
		return []types.FadeRequest{set(w, r.baseline(w.Kind, types.RoleActive))}
	}
	if tr.IsActive(w.ID) {
		return nil
	}

	var (
		old = *tr.Active
		o   = r.opacity
		d   = r.durations
	)

	var reqs []types.FadeRequest
	switch {
	case old.IsTiled() && w.IsTiled():
		reqs = append(reqs,
			fade(w, o.Tiled.Inactive, o.Tiled.Active, d.ConIn),
			fade(old, o.Tiled.Active, o.Tiled.Inactive, d.ConOut),
		)

	case old.IsTiled() && w.IsFloating():
		reqs = append(reqs,
			fade(w, o.Floating.Inactive, o.Floating.Active, d.FloatIn),
			fade(old, o.Tiled.Active, o.Bottom.Inactive, d.BotOut),
		)
		tr.SetBottom(old)

	case old.IsFloating() && w.IsTiled():
		reqs = append(reqs, fade(old, o.Floating.Active, o.Floating.Inactive, d.FloatBotOut))
		switch {
		case tr.Bottom == nil:
			reqs = append(reqs, fade(w, o.Tiled.Inactive, o.Tiled.Active, d.ConIn))
		case tr.Bottom.ID != w.ID:
			reqs = append(reqs,
				fade(*tr.Bottom, o.Bottom.Inactive, o.Tiled.Inactive, d.BotSwitchOut),
				fade(w, o.Tiled.Inactive, o.Tiled.Active, d.BotSwitchIn),
			)
			tr.SetBottom(w)
		default:
			// Returning to the window dimmed under the float
			reqs = append(reqs, fade(w, o.Bottom.Inactive, o.Tiled.Active, d.BotIn))
		}

	default:
		reqs = append(reqs,
			fade(old, o.Floating.Active, o.Floating.Inactive, d.FloatOut),
			fade(w, o.Floating.Inactive, o.Floating.Active, d.FloatIn),
		)
	}

	tr.Activate(w)
	return reqs
}

func (r *Resolver) windowCreated(tr *state.Tracker, w types.Window) []types.FadeRequest {
	var reqs []types.FadeRequest

	active := tr.Active
	if active != nil {
		reqs = append(reqs, set(*active, r.baseline(active.Kind, types.RoleInactive)))
	}

	switch {
	case tr.Bottom != nil:
		reqs = append(reqs, set(*tr.Bottom, r.opacity.Tiled.Inactive))
	case active != nil && active.IsTiled():
		// Already dimmed above
		tr.SetBottom(*active)
	}

	if w.IsFloating() {
		tr.SetFloating(w.ID, true)
	}
	reqs = append(reqs, set(w, r.baseline(w.Kind, types.RoleActive)))

	tr.Open(w)
	return reqs
}

func (r *Resolver) floatingToggled(tr *state.Tracker, w types.Window) ([]types.FadeRequest, error) {
	if tr.Active == nil {
		return nil, ErrNoActiveWindow
	}

	// The floating set decides the direction; the window's kind follows it
	floating := !tr.IsFloating(w.ID)
	tr.SetFloating(w.ID, floating)
	w.Kind = types.KindTiled
	if floating {
		w.Kind = types.KindFloating
	}

	o := r.opacity
	var reqs []types.FadeRequest

	switch {
	case !tr.IsActive(w.ID):
		reqs = append(reqs, set(w, r.baseline(w.Kind, types.RoleInactive)))

	case floating:
		if tr.Previous != nil && tr.Bottom != nil {
			if tr.Previous.IsTiled() && tr.Previous.ID != w.ID {
				tr.SetBottom(*tr.Previous)
			}
			// The toggled window leaves the bottom slot in Refresh below
			if tr.Bottom.ID != w.ID {
				reqs = append(reqs, set(*tr.Bottom, o.Bottom.Inactive))
			}
		}
		reqs = append(reqs, set(w, o.Floating.Active))

	default:
		if tr.Previous != nil && tr.Previous.IsTiled() && tr.Previous.ID != w.ID {
			reqs = append(reqs, set(*tr.Previous, o.Tiled.Inactive))
		}
		reqs = append(reqs, set(w, o.Tiled.Active))
	}

	tr.Refresh(w)
	tr.Activate(w)
	return reqs, nil
}
