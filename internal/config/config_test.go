package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playmatatu/flickfog/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TICK_RATE_HZ", "")
	t.Setenv("MIGRATE_ON_START", "")
	cfg := Load()
	if cfg.TickRateHz != 60 {
		t.Errorf("expected 60 Hz default, got %d", cfg.TickRateHz)
	}
	if cfg.MigrateOnStart {
		t.Error("migrations should not run by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TICK_RATE_HZ", "30")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("IDLE_FORFEIT_SECONDS", "not-a-number")
	cfg := Load()
	if cfg.TickRateHz != 30 {
		t.Errorf("expected 30 Hz, got %d", cfg.TickRateHz)
	}
	if !cfg.MigrateOnStart {
		t.Error("expected MIGRATE_ON_START=true to be honored")
	}
	if cfg.IdleForfeitSeconds != 90 {
		t.Errorf("bad int should fall back to default, got %d", cfg.IdleForfeitSeconds)
	}
}

func TestLoadRejectsOutOfRangeTickRate(t *testing.T) {
	for _, v := range []string{"0", "-5", "1001", "5000"} {
		t.Setenv("TICK_RATE_HZ", v)
		if got := Load().TickRateHz; got != 60 {
			t.Errorf("TICK_RATE_HZ=%s should fall back to 60, got %d", v, got)
		}
	}
	t.Setenv("TICK_RATE_HZ", "1000")
	if got := Load().TickRateHz; got != MaxTickRateHz {
		t.Errorf("expected %d Hz, got %d", MaxTickRateHz, got)
	}
}

func TestLoadBotTuningDefaults(t *testing.T) {
	got, err := LoadBotTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != game.DefaultBotTuning() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestLoadBotTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.toml")
	body := "flick_speed_min = 6.5\nstationary_threshold = 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadBotTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FlickSpeedMin != 6.5 || got.StationaryThreshold != 0.5 {
		t.Errorf("overrides not applied: %+v", got)
	}
	def := game.DefaultBotTuning()
	if got.FlickSpeedSpread != def.FlickSpeedSpread || got.ClaimOffset != def.ClaimOffset {
		t.Errorf("unset knobs should keep defaults: %+v", got)
	}
}

func TestLoadBotTuningRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.toml")
	if err := os.WriteFile(path, []byte("lateral_spread = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBotTuning(path); err == nil {
		t.Error("expected negative knob to be rejected")
	}
}

func TestLoadBotTuningRejectsUnclaimableOffset(t *testing.T) {
	for _, offset := range []string{"0", "0.0", "90.5", "150"} {
		path := filepath.Join(t.TempDir(), "bot.toml")
		if err := os.WriteFile(path, []byte("claim_offset = "+offset+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadBotTuning(path); err == nil {
			t.Errorf("claim_offset = %s should be rejected", offset)
		}
	}

	path := filepath.Join(t.TempDir(), "bot.toml")
	if err := os.WriteFile(path, []byte("claim_offset = 90.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadBotTuning(path)
	if err != nil {
		t.Fatalf("deepest legal offset should load: %v", err)
	}
	if got.ClaimOffset != 90 {
		t.Errorf("expected claim_offset 90, got %.2f", got.ClaimOffset)
	}
}

func TestLoadBotTuningMissingFile(t *testing.T) {
	if _, err := LoadBotTuning(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
