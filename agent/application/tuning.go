package application

import (
	"errors"
	"time"

	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

var ErrInvalidTuning = errors.New("invalid tuning")

// ItemValues はアイテム種別ごとの基礎価値です。すでに強化済みの能力ほど価値は下がります。
type ItemValues struct {
	BombUp  float64
	FlameUp float64
	SpeedUp float64
	Unknown float64
}

// Tuning は戦略の閾値と重みです。経験的に決めた値なので設定で上書きできます。
type Tuning struct {
	Navigation navigation.Config

	EscapeGrace       time.Duration // 自分が置いた直後の爆弾を切迫度に数えない期間
	PlacementCooldown time.Duration // サーバーに反映されるまで再設置しない期間

	ObstacleWeight float64
	EnemyWeight    float64
	ItemPenalty    float64
	MinBombScore   float64 // これ以下の評価では設置しない

	AvoidRadius int // 敵から離れ始める距離 (セル)
	SpeedStep   float64
	ItemValues  ItemValues
}

func DefaultTuning() Tuning {
	return Tuning{
		Navigation:        navigation.DefaultConfig(),
		EscapeGrace:       300 * time.Millisecond,
		PlacementCooldown: 500 * time.Millisecond,
		ObstacleWeight:    10,
		EnemyWeight:       25,
		ItemPenalty:       8,
		MinBombScore:      5,
		AvoidRadius:       2,
		SpeedStep:         20,
		ItemValues: ItemValues{
			BombUp:  30,
			FlameUp: 25,
			SpeedUp: 15,
			Unknown: 5,
		},
	}
}

func (t Tuning) Validate() error {
	var errs []error
	if t.Navigation.VisitFactor < 1 {
		errs = append(errs, errors.New("visit factor must be at least 1"))
	}
	if t.Navigation.EscapeMargin < 0 {
		errs = append(errs, errors.New("escape margin must not be negative"))
	}
	if t.EscapeGrace < 0 || t.PlacementCooldown < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if t.ObstacleWeight < 0 || t.EnemyWeight < 0 || t.ItemPenalty < 0 {
		errs = append(errs, errors.New("weights must not be negative"))
	}
	if t.AvoidRadius < 0 {
		errs = append(errs, errors.New("avoid radius must not be negative"))
	}
	if t.SpeedStep <= 0 {
		errs = append(errs, errors.New("speed step must be positive"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidTuning}, errs...)...)
	}
	return nil
}

// itemValue は自分の強化状態を考慮したアイテムの価値です。
func (t Tuning) itemValue(item domain.ItemType, self domain.Bot, rules domain.Rules) float64 {
	switch item {
	case domain.ItemBombUp:
		return t.ItemValues.BombUp / float64(1+max(0, self.Capacity-1))
	case domain.ItemFlameUp:
		return t.ItemValues.FlameUp / float64(1+max(0, self.Range-rules.FlameRange))
	case domain.ItemSpeedUp:
		extra := max(0, (self.Speed-rules.AgentSpeed)/t.SpeedStep)
		return t.ItemValues.SpeedUp / (1 + extra)
	}
	return t.ItemValues.Unknown
}
