package focus

import (
	"errors"
	"testing"
	"time"

	"github.com/yourusername/swayfader/internal/config"
	"github.com/yourusername/swayfader/internal/state"
	"github.com/yourusername/swayfader/internal/types"
)

// testSettings uses distinct values everywhere so each request is traceable
func testSettings() config.Settings {
	return config.Settings{
		Tick: config.Ms(10),
		Opacity: config.Opacity{
			Tiled:    config.Pair{Active: 1.0, Inactive: 0.8},
			Floating: config.Pair{Active: 0.95, Inactive: 0.7},
			Bottom:   config.BottomOpacity{Inactive: 0.5},
		},
		Durations: config.Durations{
			ConIn:        config.Ms(150),
			ConOut:       config.Ms(200),
			FloatIn:      config.Ms(120),
			FloatOut:     config.Ms(121),
			BotIn:        config.Ms(122),
			BotOut:       config.Ms(123),
			BotSwitchIn:  config.Ms(201),
			BotSwitchOut: config.Ms(202),
			FloatBotOut:  config.Ms(203),
		},
	}
}

var (
	winA = types.Window{ID: 1, Kind: types.KindTiled, Name: "A"}
	winB = types.Window{ID: 2, Kind: types.KindTiled, Name: "B"}
	winF = types.Window{ID: 10, Kind: types.KindFloating, Name: "F"}
	winG = types.Window{ID: 11, Kind: types.KindFloating, Name: "G"}
)

type want struct {
	id       int64
	from, to float64
	d        time.Duration
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func checkRequests(t *testing.T, got []types.FadeRequest, expected []want) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("got %d requests %+v, want %d %+v", len(got), got, len(expected), expected)
	}
	for i, w := range expected {
		g := got[i]
		if g.Window.ID != w.id || g.From != w.from || g.To != w.to || g.Duration != w.d {
			t.Errorf("request %d = {id:%d from:%v to:%v d:%v}, want %+v",
				i, g.Window.ID, g.From, g.To, g.Duration, w)
		}
	}
}

func focusEvent(w types.Window) types.Event {
	return types.Event{Type: types.EventFocus, Window: w}
}

func newEvent(w types.Window) types.Event {
	return types.Event{Type: types.EventNew, Window: w}
}

func floatEvent(w types.Window) types.Event {
	return types.Event{Type: types.EventFloating, Window: w}
}

// replay feeds events through the resolver and returns the last requests
func replay(t *testing.T, r *Resolver, tr *state.Tracker, events ...types.Event) []types.FadeRequest {
	t.Helper()
	var reqs []types.FadeRequest
	for _, ev := range events {
		var err error
		reqs, err = r.Resolve(tr, ev)
		if err != nil {
			t.Fatalf("Resolve(%+v): %v", ev, err)
		}
	}
	return reqs
}

func TestStartup(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()

	focused := winA
	focused.Focused = true
	reqs := r.Startup(tr, []types.Window{focused, winB, winF})

	checkRequests(t, reqs, []want{
		{1, 1.0, 1.0, 0},
		{2, 0.8, 0.8, 0},
		{10, 0.7, 0.7, 0},
	})
	for _, req := range reqs {
		if !req.Immediate() {
			t.Errorf("startup request %+v should be immediate", req)
		}
	}
	if !tr.IsActive(1) {
		t.Errorf("Active = %+v, want A", tr.Active)
	}
	if !tr.IsFloating(10) || tr.IsFloating(2) {
		t.Errorf("Floating = %v, want only F", tr.Floating)
	}
}

func TestStartupFloatingFocused(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()

	focused := winF
	focused.Focused = true
	checkRequests(t, r.Startup(tr, []types.Window{winA, focused}), []want{
		{1, 0.8, 0.8, 0},
		{10, 0.95, 0.95, 0},
	})
	if !tr.IsActive(10) {
		t.Errorf("Active = %+v, want F", tr.Active)
	}
}

func TestFocusTiledToTiledDefaults(t *testing.T) {
	r := NewResolver(config.DefaultConfig().Settings)
	tr := state.NewTracker()
	tr.Activate(winA)

	reqs := replay(t, r, tr, focusEvent(winB))

	checkRequests(t, reqs, []want{
		{2, 0.88, 1.0, ms(150)},
		{1, 1.0, 0.88, ms(200)},
	})
	if !tr.IsActive(2) || tr.Previous != nil {
		t.Errorf("active=%+v previous=%+v, want B and none", tr.Active, tr.Previous)
	}
}

func TestFocusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		start      types.Window
		events     []types.Event
		want       []want
		wantActive int64
		wantBottom int64 // 0 means none
	}{
		{
			name:       "tiled to tiled",
			start:      winA,
			events:     []types.Event{focusEvent(winB)},
			want:       []want{{2, 0.8, 1.0, ms(150)}, {1, 1.0, 0.8, ms(200)}},
			wantActive: 2,
		},
		{
			name:       "tiled to floating demotes to bottom",
			start:      winA,
			events:     []types.Event{focusEvent(winF)},
			want:       []want{{10, 0.7, 0.95, ms(120)}, {1, 1.0, 0.5, ms(123)}},
			wantActive: 10,
			wantBottom: 1,
		},
		{
			name:       "floating to tiled without bottom",
			start:      winF,
			events:     []types.Event{focusEvent(winA)},
			want:       []want{{10, 0.95, 0.7, ms(203)}, {1, 0.8, 1.0, ms(150)}},
			wantActive: 1,
		},
		{
			name:   "floating to another tiled window switches bottom",
			start:  winA,
			events: []types.Event{focusEvent(winF), focusEvent(winB)},
			want: []want{
				{10, 0.95, 0.7, ms(203)},
				{1, 0.5, 0.8, ms(202)},
				{2, 0.8, 1.0, ms(201)},
			},
			wantActive: 2,
			wantBottom: 2,
		},
		{
			name:       "floating back to bottom re-promotes it",
			start:      winA,
			events:     []types.Event{focusEvent(winF), focusEvent(winA)},
			want:       []want{{10, 0.95, 0.7, ms(203)}, {1, 0.5, 1.0, ms(122)}},
			wantActive: 1,
			wantBottom: 1,
		},
		{
			name:       "floating to floating",
			start:      winF,
			events:     []types.Event{focusEvent(winG)},
			want:       []want{{10, 0.95, 0.7, ms(121)}, {11, 0.7, 0.95, ms(120)}},
			wantActive: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testSettings())
			tr := state.NewTracker()
			tr.Activate(tt.start)

			reqs := replay(t, r, tr, tt.events...)

			checkRequests(t, reqs, tt.want)
			if !tr.IsActive(tt.wantActive) {
				t.Errorf("Active = %+v, want %d", tr.Active, tt.wantActive)
			}
			switch {
			case tt.wantBottom == 0 && tr.Bottom != nil:
				t.Errorf("Bottom = %+v, want none", tr.Bottom)
			case tt.wantBottom != 0 && !tr.IsBottom(tt.wantBottom):
				t.Errorf("Bottom = %+v, want %d", tr.Bottom, tt.wantBottom)
			}
		})
	}
}

func TestFocusBottomScenario(t *testing.T) {
	r := NewResolver(config.DefaultConfig().Settings)
	tr := state.NewTracker()

	replay(t, r, tr, focusEvent(winA), focusEvent(winF))
	if !tr.IsBottom(1) {
		t.Fatalf("after focusing F, Bottom = %+v, want A", tr.Bottom)
	}

	reqs := replay(t, r, tr, focusEvent(winA))
	checkRequests(t, reqs, []want{
		{10, 1.0, 0.88, ms(200)},
		{1, 0.88, 1.0, ms(120)},
	})
}

func TestFocusSameWindowIsNoop(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()
	replay(t, r, tr, focusEvent(winA), focusEvent(winB))

	reqs := replay(t, r, tr, focusEvent(winB))
	if len(reqs) != 0 {
		t.Errorf("refocus produced %+v, want nothing", reqs)
	}
	if !tr.IsActive(2) {
		t.Errorf("Active = %+v, want B", tr.Active)
	}
}

func TestFocusWithoutActiveAdoptsWindow(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()

	reqs := replay(t, r, tr, focusEvent(winF))

	checkRequests(t, reqs, []want{{10, 0.95, 0.95, 0}})
	if !tr.IsActive(10) {
		t.Errorf("Active = %+v, want F", tr.Active)
	}
}

func TestWindowCreated(t *testing.T) {
	winN := types.Window{ID: 20, Kind: types.KindTiled, Name: "N"}
	winM := types.Window{ID: 21, Kind: types.KindFloating, Name: "M"}

	tests := []struct {
		name       string
		setup      []types.Event
		created    types.Window
		want       []want
		wantBottom int64
		wantPrev   int64
	}{
		{
			name:       "tiled active becomes bottom",
			setup:      []types.Event{focusEvent(winA)},
			created:    winN,
			want:       []want{{1, 0.8, 0.8, 0}, {20, 1.0, 1.0, 0}},
			wantBottom: 1,
			wantPrev:   1,
		},
		{
			name:       "existing bottom is flattened",
			setup:      []types.Event{focusEvent(winA), focusEvent(winF)},
			created:    winN,
			want:       []want{{10, 0.7, 0.7, 0}, {1, 0.8, 0.8, 0}, {20, 1.0, 1.0, 0}},
			wantBottom: 1,
			wantPrev:   10,
		},
		{
			name:     "floating active is not a bottom",
			setup:    []types.Event{focusEvent(winF)},
			created:  winM,
			want:     []want{{10, 0.7, 0.7, 0}, {21, 0.95, 0.95, 0}},
			wantPrev: 10,
		},
		{
			name:    "first window",
			created: winN,
			want:    []want{{20, 1.0, 1.0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testSettings())
			tr := state.NewTracker()
			replay(t, r, tr, tt.setup...)

			reqs := replay(t, r, tr, newEvent(tt.created))

			checkRequests(t, reqs, tt.want)
			if !tr.IsActive(tt.created.ID) {
				t.Errorf("Active = %+v, want %d", tr.Active, tt.created.ID)
			}
			if tt.wantBottom == 0 && tr.Bottom != nil {
				t.Errorf("Bottom = %+v, want none", tr.Bottom)
			}
			if tt.wantBottom != 0 && !tr.IsBottom(tt.wantBottom) {
				t.Errorf("Bottom = %+v, want %d", tr.Bottom, tt.wantBottom)
			}
			if tt.wantPrev == 0 && tr.Previous != nil {
				t.Errorf("Previous = %+v, want none", tr.Previous)
			}
			if tt.wantPrev != 0 && (tr.Previous == nil || tr.Previous.ID != tt.wantPrev) {
				t.Errorf("Previous = %+v, want %d", tr.Previous, tt.wantPrev)
			}
			if tr.IsFloating(tt.created.ID) != tt.created.IsFloating() {
				t.Errorf("IsFloating(%d) = %v", tt.created.ID, tr.IsFloating(tt.created.ID))
			}
		})
	}
}

func TestFloatToggleWhileActive(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()

	// A focused, then B opens: A becomes bottom and previous
	replay(t, r, tr, focusEvent(winA), newEvent(winB))

	toggled := winB
	toggled.Kind = types.KindFloating
	reqs := replay(t, r, tr, floatEvent(toggled))

	checkRequests(t, reqs, []want{
		{1, 0.5, 0.5, 0},
		{2, 0.95, 0.95, 0},
	})
	if !reqs[1].Window.IsFloating() {
		t.Error("toggled window should be set as floating")
	}
	if !tr.IsActive(2) || !tr.Active.IsFloating() {
		t.Errorf("Active = %+v, want floating B", tr.Active)
	}
	if !tr.IsBottom(1) || !tr.IsFloating(2) {
		t.Errorf("bottom=%+v floating=%v", tr.Bottom, tr.Floating)
	}

	// And back to tiled
	reqs = replay(t, r, tr, floatEvent(winB))
	checkRequests(t, reqs, []want{
		{1, 0.8, 0.8, 0},
		{2, 1.0, 1.0, 0},
	})
	if tr.IsFloating(2) || !tr.Active.IsTiled() {
		t.Errorf("B should be tiled again: active=%+v floating=%v", tr.Active, tr.Floating)
	}
}

func TestFloatToggle(t *testing.T) {
	winC := types.Window{ID: 3, Kind: types.KindTiled, Name: "C"}
	winN := types.Window{ID: 20, Kind: types.KindTiled, Name: "N"}

	tests := []struct {
		name    string
		setup   []types.Event
		toggled types.Window
		want    []want
		prev    int64
		bottom  int64
	}{
		{
			name:    "inactive window becomes floating",
			setup:   []types.Event{focusEvent(winA)},
			toggled: winC,
			want:    []want{{3, 0.7, 0.7, 0}},
		},
		{
			name:    "active window without bottom",
			setup:   []types.Event{focusEvent(winA), focusEvent(winB)},
			toggled: winB,
			want:    []want{{2, 0.95, 0.95, 0}},
		},
		{
			name:    "floating previous keeps bottom",
			setup:   []types.Event{focusEvent(winA), focusEvent(winF), newEvent(winN)},
			toggled: winN,
			want:    []want{{1, 0.5, 0.5, 0}, {20, 0.95, 0.95, 0}},
			prev:    10,
			bottom:  1,
		},
		{
			name:    "window open before focus switch becomes bottom",
			setup:   []types.Event{focusEvent(winA), newEvent(winF), focusEvent(winB)},
			toggled: winB,
			want:    []want{{1, 0.5, 0.5, 0}, {2, 0.95, 0.95, 0}},
			prev:    1,
			bottom:  1,
		},
		{
			name:    "toggled bottom window is not dimmed",
			setup:   []types.Event{focusEvent(winA), newEvent(winF), focusEvent(winA)},
			toggled: winA,
			want:    []want{{1, 0.95, 0.95, 0}},
			prev:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testSettings())
			tr := state.NewTracker()
			replay(t, r, tr, tt.setup...)

			reqs := replay(t, r, tr, floatEvent(tt.toggled))

			checkRequests(t, reqs, tt.want)
			if !tr.IsActive(tt.toggled.ID) || !tr.IsFloating(tt.toggled.ID) {
				t.Errorf("active=%+v floating=%v", tr.Active, tr.Floating)
			}
			if tt.prev == 0 && tr.Previous != nil {
				t.Errorf("Previous = %+v, want none", tr.Previous)
			}
			if tt.prev != 0 && (tr.Previous == nil || tr.Previous.ID != tt.prev) {
				t.Errorf("Previous = %+v, want %d", tr.Previous, tt.prev)
			}
			if tt.bottom == 0 && tr.Bottom != nil {
				t.Errorf("Bottom = %+v, want none", tr.Bottom)
			}
			if tt.bottom != 0 && !tr.IsBottom(tt.bottom) {
				t.Errorf("Bottom = %+v, want %d", tr.Bottom, tt.bottom)
			}
		})
	}
}

func TestFloatToggleInactiveBackToTiled(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()
	replay(t, r, tr, focusEvent(winA), newEvent(winF))

	reqs := replay(t, r, tr, focusEvent(winA), floatEvent(winF))
	checkRequests(t, reqs, []want{{10, 0.8, 0.8, 0}})
	if tr.IsFloating(10) {
		t.Error("F should have left the floating set")
	}
}

func TestFloatToggleWithoutActive(t *testing.T) {
	r := NewResolver(testSettings())
	tr := state.NewTracker()

	_, err := r.Resolve(tr, floatEvent(winA))
	if !errors.Is(err, ErrNoActiveWindow) {
		t.Errorf("error = %v, want ErrNoActiveWindow", err)
	}
}

func TestResolveUnknownEvent(t *testing.T) {
	r := NewResolver(testSettings())
	if _, err := r.Resolve(state.NewTracker(), types.Event{Type: "close", Window: winA}); err == nil {
		t.Error("expected error for unknown event type")
	}
}
