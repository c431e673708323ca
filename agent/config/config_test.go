package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"bomberbot/agent/application"
	"bomberbot/agent/config"
	"bomberbot/agent/domain"
)

func TestDefault_MatchesBuiltins(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.DomainRules(); got != domain.DefaultRules() {
		t.Errorf("DomainRules = %+v, want %+v", got, domain.DefaultRules())
	}
	if got := cfg.EngineTuning(); !reflect.DeepEqual(got, application.DefaultTuning()) {
		t.Errorf("EngineTuning = %+v, want %+v", got, application.DefaultTuning())
	}
	if !reflect.DeepEqual(cfg.Priorities, application.DefaultPriorities()) {
		t.Errorf("Priorities = %v, want defaults", cfg.Priorities)
	}
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
rules:
  fuse_duration: 2500ms
  flame_range: 3
priorities:
  place_explosive: 80
tuning:
  min_bomb_score: 12
  placement_cooldown: 1s
  item_values:
    speed_up: 40
cadence:
  danger: 20ms
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rules := cfg.DomainRules()
	if rules.FuseDuration != 2500*time.Millisecond || rules.FlameRange != 3 {
		t.Errorf("rules = %+v", rules)
	}
	if rules.CellSize != domain.DefaultRules().CellSize {
		t.Errorf("CellSize = %v, want default", rules.CellSize)
	}

	if cfg.Priorities[application.NamePlaceExplosive] != 80 {
		t.Errorf("place priority = %v, want 80", cfg.Priorities[application.NamePlaceExplosive])
	}
	if cfg.Priorities[application.NameEscape] != application.DefaultPriorities()[application.NameEscape] {
		t.Errorf("escape priority = %v, want default", cfg.Priorities[application.NameEscape])
	}

	tuning := cfg.EngineTuning()
	if tuning.MinBombScore != 12 || tuning.PlacementCooldown != time.Second || tuning.ItemValues.SpeedUp != 40 {
		t.Errorf("tuning = %+v", tuning)
	}
	if tuning.ItemValues.BombUp != application.DefaultTuning().ItemValues.BombUp {
		t.Errorf("BombUp = %v, want default", tuning.ItemValues.BombUp)
	}

	if cfg.Cadence.Danger != 20*time.Millisecond || cfg.Cadence.Normal != config.Default().Cadence.Normal {
		t.Errorf("cadence = %+v", cfg.Cadence)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "rules:\n  cell_sise: 32\n"},
		{"unknown strategy", "priorities:\n  teleport: 50\n"},
		{"priority out of range", "priorities:\n  hunt: 120\n"},
		{"zero cell size", "rules:\n  cell_size: 0\n"},
		{"negative weight", "tuning:\n  enemy_weight: -1\n"},
		{"danger slower than normal", "cadence:\n  normal: 50ms\n  danger: 80ms\n"},
		{"malformed", "rules: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Parse([]byte(tt.yaml)); !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParse_DoesNotLeakBetweenCalls(t *testing.T) {
	if _, err := config.Parse([]byte("priorities:\n  hunt: 90\n")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := config.Default().Priorities[application.NameHunt]; got != application.DefaultPriorities()[application.NameHunt] {
		t.Errorf("default hunt priority = %v after Parse", got)
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(cfg, config.Default()) {
			t.Errorf("Load(\"\") = %+v, want defaults", cfg)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot.yaml")
		if err := os.WriteFile(path, []byte("tuning:\n  avoid_radius: 4\n"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Tuning.AvoidRadius != 4 {
			t.Errorf("AvoidRadius = %d, want 4", cfg.Tuning.AvoidRadius)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want ErrNotExist", err)
		}
	})
}

func TestConfig_Registrations(t *testing.T) {
	cfg := config.Default()
	cfg.Priorities[application.NameExplore] = 99

	regs := cfg.Registrations()
	if len(regs) != len(application.DefaultPriorities()) {
		t.Fatalf("len = %d, want %d", len(regs), len(application.DefaultPriorities()))
	}
	for _, r := range regs {
		if r.Strategy.Name() == application.NameExplore && r.Priority != 99 {
			t.Errorf("explore priority = %v, want 99", r.Priority)
		}
	}
}
