package state

import "github.com/yourusername/swayfader/internal/types"

// Tracker holds the window roles the focus transitions depend on.
// It is owned by the event loop and must only be touched from there;
// events are handled strictly one at a time.
type Tracker struct {
	Active   *types.Window      // Currently focused window, nil before the first focus
	Previous *types.Window      // Window that was active when the latest window opened
	Bottom   *types.Window      // Tiled window dimmed under a focused float; always tiled
	Floating map[int64]struct{} // IDs currently known to be floating
}

// NewTracker creates a new empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		Floating: make(map[int64]struct{}),
	}
}

// IsActive reports whether id is the active window
func (t *Tracker) IsActive(id int64) bool {
	return t.Active != nil && t.Active.ID == id
}

// IsBottom reports whether id is the bottom window
func (t *Tracker) IsBottom(id int64) bool {
	return t.Bottom != nil && t.Bottom.ID == id
}

// IsFloating reports whether id is in the floating set
func (t *Tracker) IsFloating(id int64) bool {
	_, ok := t.Floating[id]
	return ok
}

// SetFloating adds or removes id from the floating set
func (t *Tracker) SetFloating(id int64, floating bool) {
	if floating {
		t.Floating[id] = struct{}{}
		return
	}
	delete(t.Floating, id)
}

// Activate makes w the active window. Previous is left alone.
func (t *Tracker) Activate(w types.Window) {
	t.Active = &w
}

// Open makes a newly created window active and remembers the old active
// window, or nil, as Previous
func (t *Tracker) Open(w types.Window) {
	t.Previous = t.Active
	t.Active = &w
}

// SetBottom records w as the bottom window; floating windows are refused
func (t *Tracker) SetBottom(w types.Window) bool {
	if !w.IsTiled() {
		return false
	}
	t.Bottom = &w
	return true
}

// Refresh replaces stored copies of w with the latest observation,
// e.g. after its kind changed. A bottom window that became floating is
// dropped to keep Bottom tiled.
func (t *Tracker) Refresh(w types.Window) {
	if t.Active != nil && t.Active.ID == w.ID {
		t.Active = &w
	}
	if t.Previous != nil && t.Previous.ID == w.ID {
		prev := w
		t.Previous = &prev
	}
	if t.Bottom != nil && t.Bottom.ID == w.ID {
		if w.IsTiled() {
			bottom := w
			t.Bottom = &bottom
		} else {
			t.Bottom = nil
		}
	}
}
