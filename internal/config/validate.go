package config

import "fmt"

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := validateSettings(&c.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

func validateSettings(s *Settings) error {
	if s.Tick.Duration <= 0 {
		return fmt.Errorf("tick must be positive, got %s", s.Tick.Duration)
	}

	opacities := []struct {
		name  string
		value float64
	}{
		{"opacity.tiled.active", s.Opacity.Tiled.Active},
		{"opacity.tiled.inactive", s.Opacity.Tiled.Inactive},
		{"opacity.floating.active", s.Opacity.Floating.Active},
		{"opacity.floating.inactive", s.Opacity.Floating.Inactive},
		{"opacity.bottom.inactive", s.Opacity.Bottom.Inactive},
	}
	for _, o := range opacities {
		// Written so NaN fails too
		if !(o.value >= 0 && o.value <= 1) {
			return fmt.Errorf("%s must be within [0, 1], got %v", o.name, o.value)
		}
	}

	d := s.Durations
	durations := []struct {
		name  string
		value Duration
	}{
		{"durations.conIn", d.ConIn},
		{"durations.conOut", d.ConOut},
		{"durations.floatIn", d.FloatIn},
		{"durations.floatOut", d.FloatOut},
		{"durations.botIn", d.BotIn},
		{"durations.botOut", d.BotOut},
		{"durations.botSwitchIn", d.BotSwitchIn},
		{"durations.botSwitchOut", d.BotSwitchOut},
		{"durations.floatBotOut", d.FloatBotOut},
	}
	for _, dur := range durations {
		if dur.value.Duration < 0 {
			return fmt.Errorf("%s cannot be negative", dur.name)
		}
	}

	return nil
}
