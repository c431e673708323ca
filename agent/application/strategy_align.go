package application

import (
	"fmt"

	"bomberbot/agent/domain"
)

// AlignStrategy は爆弾を置く価値があるのにセル中心からずれているとき、中心に寄せます。
// 爆風はセル単位なので、ずれたまま置くと射程が無駄になります。
type AlignStrategy struct {
	tuning Tuning
}

func NewAlignStrategy(t Tuning) *AlignStrategy {
	return &AlignStrategy{tuning: t}
}

func (a *AlignStrategy) Name() string {
	return NameAlign
}

func (a *AlignStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	if s.Aligned || s.Capacity <= 0 || s.InHazard() || s.Board.HasBomb(s.Self) {
		return domain.Decision{}, false
	}
	score := s.YieldAt(s.Self).Score(a.tuning)
	if score <= a.tuning.MinBombScore {
		return domain.Decision{}, false
	}
	dx, dy := s.Grid.CenterDelta(s.Snapshot.Self.Position, s.Self)
	priority := CalculatePriority(base, PriorityTerms{Value: score / 2})
	return moveDecision(s, s.Self, s.Self, priority, fmt.Sprintf("align to %s (dx=%.1f dy=%.1f)", s.Self, dx, dy))
}
