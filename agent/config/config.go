package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bomberbot/agent/application"
	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config はボットのチューニングファイルです。ファイルにない項目は既定値のままです。
//
//	rules:
//	  cell_size: 32
//	  fuse_duration: 3s
//	priorities:
//	  place_explosive: 75
//	tuning:
//	  min_bomb_score: 8
//	cadence:
//	  danger: 33ms
type Config struct {
	Rules      Rules              `yaml:"rules"`
	Priorities map[string]float64 `yaml:"priorities"`
	Tuning     Tuning             `yaml:"tuning"`
	Cadence    Cadence            `yaml:"cadence"`
}

type Rules struct {
	CellSize       float64       `yaml:"cell_size"`
	Footprint      float64       `yaml:"footprint"`
	AgentSpeed     float64       `yaml:"agent_speed"`
	FuseDuration   time.Duration `yaml:"fuse_duration"`
	FlameRange     int           `yaml:"flame_range"`
	AlignTolerance float64       `yaml:"align_tolerance"`
}

type Tuning struct {
	VisitFactor       int           `yaml:"visit_factor"`
	EscapeMargin      float64       `yaml:"escape_margin"`
	EscapeGrace       time.Duration `yaml:"escape_grace"`
	PlacementCooldown time.Duration `yaml:"placement_cooldown"`
	ObstacleWeight    float64       `yaml:"obstacle_weight"`
	EnemyWeight       float64       `yaml:"enemy_weight"`
	ItemPenalty       float64       `yaml:"item_penalty"`
	MinBombScore      float64       `yaml:"min_bomb_score"`
	AvoidRadius       int           `yaml:"avoid_radius"`
	SpeedStep         float64       `yaml:"speed_step"`
	ItemValues        ItemValues    `yaml:"item_values"`
}

type ItemValues struct {
	BombUp  float64 `yaml:"bomb_up"`
	FlameUp float64 `yaml:"flame_up"`
	SpeedUp float64 `yaml:"speed_up"`
	Unknown float64 `yaml:"unknown"`
}

// Cadence は判断ループの間隔です。危険度に応じて Normal と Danger を切り替えます。
type Cadence struct {
	Normal time.Duration `yaml:"normal"`
	Danger time.Duration `yaml:"danger"`
	// スナップショットがこれより古ければ自分の位置を予測で補う
	Stale time.Duration `yaml:"stale"`
	// この間なにも受信しなければ切断して再接続する。0 で無効
	Idle time.Duration `yaml:"idle"`
}

func Default() Config {
	r := domain.DefaultRules()
	t := application.DefaultTuning()
	return Config{
		Rules: Rules{
			CellSize:       r.CellSize,
			Footprint:      r.Footprint,
			AgentSpeed:     r.AgentSpeed,
			FuseDuration:   r.FuseDuration,
			FlameRange:     r.FlameRange,
			AlignTolerance: r.AlignTolerance,
		},
		Priorities: application.DefaultPriorities(),
		Tuning: Tuning{
			VisitFactor:       t.Navigation.VisitFactor,
			EscapeMargin:      t.Navigation.EscapeMargin,
			EscapeGrace:       t.EscapeGrace,
			PlacementCooldown: t.PlacementCooldown,
			ObstacleWeight:    t.ObstacleWeight,
			EnemyWeight:       t.EnemyWeight,
			ItemPenalty:       t.ItemPenalty,
			MinBombScore:      t.MinBombScore,
			AvoidRadius:       t.AvoidRadius,
			SpeedStep:         t.SpeedStep,
			ItemValues: ItemValues{
				BombUp:  t.ItemValues.BombUp,
				FlameUp: t.ItemValues.FlameUp,
				SpeedUp: t.ItemValues.SpeedUp,
				Unknown: t.ItemValues.Unknown,
			},
		},
		Cadence: Cadence{
			Normal: 100 * time.Millisecond,
			Danger: 33 * time.Millisecond,
			Stale:  150 * time.Millisecond,
			Idle:   5 * time.Second,
		},
	}
}

// Load は path のYAMLを既定値に重ねて読みます。path が空なら既定値を返します。
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	priorities := cfg.Priorities
	cfg.Priorities = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for name, p := range cfg.Priorities {
		priorities[name] = p
	}
	cfg.Priorities = priorities

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if err := c.DomainRules().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.EngineTuning().Validate(); err != nil {
		errs = append(errs, err)
	}
	known := application.DefaultPriorities()
	for name, p := range c.Priorities {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown strategy %q", name))
			continue
		}
		if p < application.MinPriority || p > application.MaxPriority {
			errs = append(errs, fmt.Errorf("priority of %s must be within [0, 100]: %v", name, p))
		}
	}
	if c.Cadence.Normal <= 0 || c.Cadence.Danger <= 0 {
		errs = append(errs, errors.New("cadence intervals must be positive"))
	}
	if c.Cadence.Stale < 0 || c.Cadence.Idle < 0 {
		errs = append(errs, errors.New("stale and idle thresholds must not be negative"))
	}
	if c.Cadence.Danger > c.Cadence.Normal {
		errs = append(errs, errors.New("danger cadence must not be slower than normal"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

func (c Config) DomainRules() domain.Rules {
	return domain.Rules{
		CellSize:       c.Rules.CellSize,
		Footprint:      c.Rules.Footprint,
		AgentSpeed:     c.Rules.AgentSpeed,
		FuseDuration:   c.Rules.FuseDuration,
		FlameRange:     c.Rules.FlameRange,
		AlignTolerance: c.Rules.AlignTolerance,
	}
}

func (c Config) EngineTuning() application.Tuning {
	return application.Tuning{
		Navigation: navigation.Config{
			VisitFactor:  c.Tuning.VisitFactor,
			EscapeMargin: c.Tuning.EscapeMargin,
		},
		EscapeGrace:       c.Tuning.EscapeGrace,
		PlacementCooldown: c.Tuning.PlacementCooldown,
		ObstacleWeight:    c.Tuning.ObstacleWeight,
		EnemyWeight:       c.Tuning.EnemyWeight,
		ItemPenalty:       c.Tuning.ItemPenalty,
		MinBombScore:      c.Tuning.MinBombScore,
		AvoidRadius:       c.Tuning.AvoidRadius,
		SpeedStep:         c.Tuning.SpeedStep,
		ItemValues: application.ItemValues{
			BombUp:  c.Tuning.ItemValues.BombUp,
			FlameUp: c.Tuning.ItemValues.FlameUp,
			SpeedUp: c.Tuning.ItemValues.SpeedUp,
			Unknown: c.Tuning.ItemValues.Unknown,
		},
	}
}

// Registrations は設定された優先度で戦略一式を作ります。
func (c Config) Registrations() []application.Registration {
	return application.DefaultRegistrations(c.EngineTuning(), c.Priorities)
}
