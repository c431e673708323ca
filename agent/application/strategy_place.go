package application

import (
	"fmt"

	"bomberbot/agent/domain"
)

// PlaceExplosiveStrategy は十分な価値があり、置いた後に逃げ切れるときだけ爆弾を置きます。
type PlaceExplosiveStrategy struct {
	tuning Tuning
	placed placementMemory
}

func NewPlaceExplosiveStrategy(t Tuning) *PlaceExplosiveStrategy {
	return &PlaceExplosiveStrategy{tuning: t}
}

func (p *PlaceExplosiveStrategy) Name() string {
	return NamePlaceExplosive
}

func (p *PlaceExplosiveStrategy) Observe(s *Situation, d domain.Decision) {
	p.placed.observeBomb(s, d)
}

func (p *PlaceExplosiveStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	switch {
	case s.Capacity <= 0:
		return domain.Decision{}, false
	case s.Board.HasBomb(s.Self):
		return domain.Decision{}, false
	case !s.Aligned:
		return domain.Decision{}, false
	case s.InHazard():
		return domain.Decision{}, false
	}
	// サーバーにまだ反映されていない直前の設置
	if _, recent := p.placed.within(s.Snapshot.ReceivedAt, p.tuning.PlacementCooldown); recent {
		return domain.Decision{}, false
	}

	yield := s.YieldAt(s.Self)
	score := yield.Score(p.tuning)
	if score <= p.tuning.MinBombScore {
		return domain.Decision{}, false
	}

	escape := s.Paths.CanEscape(s.Self, s.SimulatedBomb(s.Self), s.Speed)
	if !escape.OK {
		return domain.Decision{}, false
	}

	slack := (escape.Fuse - escape.Travel).Seconds()
	var urgency float64
	if yield.Enemies > 0 {
		urgency = 10
	}
	priority := CalculatePriority(base, PriorityTerms{
		Value:     score,
		Urgency:   urgency,
		SafetyAdj: slack*5 - 5, // 爆発までの余裕 1秒ごとに +5
	})

	target := s.Grid.CellCenter(s.Self)
	return domain.Decision{
		Action:   domain.ActionBomb,
		Target:   &target,
		Priority: priority,
		Rationale: fmt.Sprintf("obstacles=%d enemies=%d items=%d escape via %s",
			yield.Obstacles, yield.Enemies, yield.Items, escape.Safe),
	}, true
}
