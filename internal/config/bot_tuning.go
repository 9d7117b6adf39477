package config

import (
	"fmt"
	"log"

	"github.com/BurntSushi/toml"
	"github.com/playmatatu/flickfog/internal/game"
)

// botTuningFile mirrors game.BotTuning with every knob optional.
type botTuningFile struct {
	StationaryThreshold *float64 `toml:"stationary_threshold"`
	FlickSpeedMin       *float64 `toml:"flick_speed_min"`
	FlickSpeedSpread    *float64 `toml:"flick_speed_spread"`
	LateralSpread       *float64 `toml:"lateral_spread"`
	ClaimOffset         *float64 `toml:"claim_offset"`
}

// LoadBotTuning returns the default bot tuning overridden by the TOML file
// at path. An empty path yields the defaults.
func LoadBotTuning(path string) (game.BotTuning, error) {
	t := game.DefaultBotTuning()
	if path == "" {
		return t, nil
	}

	var f botTuningFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return t, fmt.Errorf("decode bot tuning %s: %w", path, err)
	}
	set := func(dst *float64, v *float64, name string) error {
		if v == nil {
			return nil
		}
		if *v < 0 {
			return fmt.Errorf("bot tuning %s must not be negative", name)
		}
		*dst = *v
		return nil
	}
	for _, kv := range []struct {
		dst  *float64
		v    *float64
		name string
	}{
		{&t.StationaryThreshold, f.StationaryThreshold, "stationary_threshold"},
		{&t.FlickSpeedMin, f.FlickSpeedMin, "flick_speed_min"},
		{&t.FlickSpeedSpread, f.FlickSpeedSpread, "flick_speed_spread"},
		{&t.LateralSpread, f.LateralSpread, "lateral_spread"},
		{&t.ClaimOffset, f.ClaimOffset, "claim_offset"},
	} {
		if err := set(kv.dst, kv.v, kv.name); err != nil {
			return game.DefaultBotTuning(), err
		}
	}
	if err := t.Validate(); err != nil {
		return game.DefaultBotTuning(), fmt.Errorf("bot tuning %s: %w", path, err)
	}
	log.Printf("[BOT] loaded tuning from %s: %+v", path, t)
	return t, nil
}
