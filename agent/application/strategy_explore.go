package application

import (
	"fmt"

	"bomberbot/agent/domain"
)

// ExploreStrategy は他に提案がないときの移動先です。
// 開けていてアイテムに近く、敵から遠いセルを好みます。
type ExploreStrategy struct {
	tuning Tuning
}

func NewExploreStrategy(t Tuning) *ExploreStrategy {
	return &ExploreStrategy{tuning: t}
}

func (x *ExploreStrategy) Name() string {
	return NameExplore
}

func (x *ExploreStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	field := s.SafeField()

	var (
		target domain.Cell
		best   float64
		found  bool
	)
	for _, c := range field.Reachable() {
		d, _ := field.At(c)
		if d == 0 {
			continue
		}
		score := x.score(s, c) - 0.1*float64(d)
		if !found || score > best {
			target, best, found = c, score, true
		}
	}
	if !found {
		return domain.Decision{}, false
	}

	next, ok := field.PathTo(target).FirstStep()
	if !ok {
		return domain.Decision{}, false
	}
	priority := CalculatePriority(base, PriorityTerms{Value: max(0, best)})
	return moveDecision(s, next, target, priority, fmt.Sprintf("explore toward %s", target))
}

// score = 開けている度合い + 隣接アイテム − 近くの敵
func (x *ExploreStrategy) score(s *Situation, c domain.Cell) float64 {
	score := float64(s.Board.WalkableNeighbors(c))
	for _, d := range domain.Directions {
		if _, ok := s.Board.ItemAt(c.Neighbor(d)); ok {
			score += 2
		}
	}
	if _, ok := s.Board.ItemAt(c); ok {
		score += 2
	}
	for _, e := range s.Enemies() {
		if s.EnemyCell(e).Manhattan(c) <= x.tuning.AvoidRadius+1 {
			score -= 3
		}
	}
	return score
}
