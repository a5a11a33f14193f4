package config

import "github.com/yourusername/swayfader/internal/types"

// Config is the root configuration structure
type Config struct {
	Settings Settings `yaml:"settings" json:"settings" toml:"settings"`
}

// Settings contains the fader tunables
type Settings struct {
	Tick      Duration  `yaml:"tick" json:"tick" toml:"tick"` // Time between animation frames
	Opacity   Opacity   `yaml:"opacity" json:"opacity" toml:"opacity"`
	Durations Durations `yaml:"durations" json:"durations" toml:"durations"`
}

// Pair holds the resting opacities for one window kind
type Pair struct {
	Active   float64 `yaml:"active" json:"active" toml:"active"`
	Inactive float64 `yaml:"inactive" json:"inactive" toml:"inactive"`
}

// BottomOpacity holds the opacity of a tiled window dimmed under a float
type BottomOpacity struct {
	Inactive float64 `yaml:"inactive" json:"inactive" toml:"inactive"`
}

// Opacity holds every baseline opacity
type Opacity struct {
	Tiled    Pair          `yaml:"tiled" json:"tiled" toml:"tiled"`
	Floating Pair          `yaml:"floating" json:"floating" toml:"floating"`
	Bottom   BottomOpacity `yaml:"bottom" json:"bottom" toml:"bottom"`
}

// Durations holds one fade duration per transition class
type Durations struct {
	ConIn        Duration `yaml:"conIn" json:"conIn" toml:"conIn"`                      // tiled window gaining focus
	ConOut       Duration `yaml:"conOut" json:"conOut" toml:"conOut"`                   // tiled window losing focus to a tiled window
	FloatIn      Duration `yaml:"floatIn" json:"floatIn" toml:"floatIn"`                // floating window gaining focus
	FloatOut     Duration `yaml:"floatOut" json:"floatOut" toml:"floatOut"`             // floating window losing focus to a float
	BotIn        Duration `yaml:"botIn" json:"botIn" toml:"botIn"`                      // bottom window regaining focus
	BotOut       Duration `yaml:"botOut" json:"botOut" toml:"botOut"`                   // tiled window demoted to bottom
	BotSwitchIn  Duration `yaml:"botSwitchIn" json:"botSwitchIn" toml:"botSwitchIn"`    // other tiled window focused from a float
	BotSwitchOut Duration `yaml:"botSwitchOut" json:"botSwitchOut" toml:"botSwitchOut"` // old bottom released
	FloatBotOut  Duration `yaml:"floatBotOut" json:"floatBotOut" toml:"floatBotOut"`    // float losing focus to a tiled window
}

// Baseline returns the resting opacity for a window kind in a role.
// RoleBottom ignores kind; only tiled windows are ever demoted.
func (o Opacity) Baseline(kind types.Kind, role types.Role) float64 {
	if role == types.RoleBottom {
		return o.Bottom.Inactive
	}

	pair := o.Tiled
	if kind == types.KindFloating {
		pair = o.Floating
	}
	if role == types.RoleActive {
		return pair.Active
	}
	return pair.Inactive
}
