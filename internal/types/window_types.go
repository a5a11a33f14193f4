package types

import (
	"fmt"
	"time"
)

// Kind is how the window manager places a window
type Kind int

const (
	KindTiled    Kind = iota // Managed by the automatic layout
	KindFloating             // User-positioned above the layout
)

// String returns the Sway-style name of the kind
func (k Kind) String() string {
	switch k {
	case KindTiled:
		return "tiled"
	case KindFloating:
		return "floating"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindFromNodeType maps a Sway node type to a Kind.
// "floating_con" is floating; anything else is treated as tiled.
func KindFromNodeType(nodeType string) Kind {
	if nodeType == "floating_con" {
		return KindFloating
	}
	return KindTiled
}

// Role is the resting state a window is shown in
type Role int

const (
	RoleActive   Role = iota // Focused window
	RoleInactive             // Unfocused window
	RoleBottom               // Tiled window dimmed under a focused floating window
)

// String returns a short name for the role
func (r Role) String() string {
	switch r {
	case RoleActive:
		return "active"
	case RoleInactive:
		return "inactive"
	case RoleBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Window is a reference to a window owned by the window manager
type Window struct {
	ID      int64  // Sway container ID
	Kind    Kind   // Tiled or floating at the time it was observed
	Focused bool   // Focus flag from the event or tree
	Name    string // Window title
	AppID   string // Wayland app_id or X11 class
}

// IsTiled reports whether the window is tiled
func (w Window) IsTiled() bool {
	return w.Kind == KindTiled
}

// IsFloating reports whether the window is floating
func (w Window) IsFloating() bool {
	return w.Kind == KindFloating
}

// Label returns a human-readable name for logs
func (w Window) Label() string {
	if w.Name != "" {
		return w.Name
	}
	if w.AppID != "" {
		return w.AppID
	}
	return fmt.Sprintf("#%d", w.ID)
}

// EventType identifies the window events the fader reacts to
type EventType string

const (
	EventFocus    EventType = "focus"
	EventNew      EventType = "new"
	EventFloating EventType = "floating"
)

// Event is a typed window event from the window manager
type Event struct {
	Type   EventType
	Window Window
}

// FadeRequest asks the fade engine to move a window's opacity.
// A zero Duration, or From == To, is applied immediately.
type FadeRequest struct {
	Window   Window
	From     float64
	To       float64
	Duration time.Duration
}

// Immediate reports whether the request collapses to a single opacity set
func (r FadeRequest) Immediate() bool {
	return r.Duration <= 0 || r.From == r.To
}
