package application

import (
	"fmt"

	"bomberbot/agent/domain"
)

// AvoidEnemyStrategy は近くの敵から距離を取ります。
type AvoidEnemyStrategy struct {
	tuning Tuning
}

func NewAvoidEnemyStrategy(t Tuning) *AvoidEnemyStrategy {
	return &AvoidEnemyStrategy{tuning: t}
}

func (a *AvoidEnemyStrategy) Name() string {
	return NameAvoidEnemy
}

func (a *AvoidEnemyStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	enemy, dist, ok := a.nearestEnemy(s)
	if !ok || dist > a.tuning.AvoidRadius {
		return domain.Decision{}, false
	}

	best, bestDist := s.Self, dist
	for _, d := range domain.Directions {
		n := s.Self.Neighbor(d)
		if !s.Board.Walkable(n) || !s.Hazard.IsSafe(n) {
			continue
		}
		if nd := n.Manhattan(enemy); nd > bestDist {
			best, bestDist = n, nd
		}
	}
	if best == s.Self {
		return domain.Decision{}, false
	}

	radius := float64(a.tuning.AvoidRadius + 1)
	priority := CalculatePriority(base, PriorityTerms{
		Urgency:     20 * (radius - float64(dist)) / radius,
		DistanceAdj: float64(bestDist - dist),
	})
	return moveDecision(s, best, best, priority, fmt.Sprintf("enemy at %s, %d cells away", enemy, dist))
}

// nearestEnemy は最も近い生存している敵のセルと距離です。同距離なら先に並んでいる方。
func (a *AvoidEnemyStrategy) nearestEnemy(s *Situation) (domain.Cell, int, bool) {
	var (
		nearest domain.Cell
		best    int
		found   bool
	)
	for _, e := range s.Enemies() {
		c := s.EnemyCell(e)
		if d := c.Manhattan(s.Self); !found || d < best {
			nearest, best, found = c, d, true
		}
	}
	return nearest, best, found
}
