package application

import (
	"bomberbot/agent/domain"
)

//go:generate go tool mockgen -destination=./mocks/strategy_mock.go -package=mocks . Strategy,DecisionObserver

// Strategy は1tickに最大1つの行動を提案する独立した判断モジュールです。
// Evaluate は Situation を書き換えてはいけません。提案しないときは false を返します。
type Strategy interface {
	Name() string
	Evaluate(s *Situation, base float64) (domain.Decision, bool)
}

// DecisionObserver は採用された行動を受け取る戦略が実装します。
// 戦略自身の小さな記憶 (直前に置いた爆弾など) の更新だけに使います。
type DecisionObserver interface {
	Observe(s *Situation, d domain.Decision)
}

// 戦略名
const (
	NameEscape         = "escape"
	NamePlaceExplosive = "place_explosive"
	NameAvoidEnemy     = "avoid_enemy"
	NameCollect        = "collect"
	NameAlign          = "align"
	NameSeekObstacle   = "seek_obstacle"
	NameHunt           = "hunt"
	NameExplore        = "explore"
)

// DefaultPriorities は各戦略の既定の基礎優先度です。
func DefaultPriorities() map[string]float64 {
	return map[string]float64{
		NameEscape:         95,
		NamePlaceExplosive: 70,
		NameAvoidEnemy:     60,
		NameCollect:        50,
		NameAlign:          45,
		NameSeekObstacle:   40,
		NameHunt:           30,
		NameExplore:        10,
	}
}

// NewStrategies は既定の戦略一式を作ります。
func NewStrategies(t Tuning) []Strategy {
	return []Strategy{
		NewEscapeStrategy(t),
		NewPlaceExplosiveStrategy(t),
		NewAvoidEnemyStrategy(t),
		NewCollectStrategy(t),
		NewAlignStrategy(t),
		NewSeekObstacleStrategy(t),
		NewHuntStrategy(t),
		NewExploreStrategy(t),
	}
}

// DefaultRegistrations は戦略一式を priorities (未指定は既定値) と組にします。
func DefaultRegistrations(t Tuning, priorities map[string]float64) []Registration {
	defaults := DefaultPriorities()
	strategies := NewStrategies(t)
	regs := make([]Registration, 0, len(strategies))
	for _, s := range strategies {
		p, ok := priorities[s.Name()]
		if !ok {
			p = defaults[s.Name()]
		}
		regs = append(regs, Registration{Strategy: s, Priority: p})
	}
	return regs
}

// moveDecision は target セルの中心へ寄せる1手を作ります。すでに揃っていれば false。
func moveDecision(s *Situation, target domain.Cell, goal domain.Cell, priority float64, rationale string) (domain.Decision, bool) {
	dir := s.Grid.StepToward(s.Snapshot.Self.Position, target)
	if dir == domain.DirectionNone {
		return domain.Decision{}, false
	}
	center := s.Grid.CellCenter(goal)
	return domain.Decision{
		Action:    domain.ActionMove,
		Direction: dir,
		Target:    &center,
		Priority:  priority,
		Rationale: rationale,
	}, true
}
