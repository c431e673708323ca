package application

import (
	"fmt"

	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

// CollectStrategy は価値/(距離+1) が最大のアイテムへ向かいます。危険セルのアイテムは無視します。
type CollectStrategy struct {
	tuning Tuning
}

func NewCollectStrategy(t Tuning) *CollectStrategy {
	return &CollectStrategy{tuning: t}
}

func (c *CollectStrategy) Name() string {
	return NameCollect
}

func (c *CollectStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	items := s.Board.ItemCells()
	if len(items) == 0 {
		return domain.Decision{}, false
	}
	field := s.SafeField()

	var (
		target domain.Cell
		best   float64
		dist   int
		item   domain.Item
		found  bool
	)
	for _, cell := range items {
		if !s.Hazard.IsSafe(cell) {
			continue
		}
		d, ok := field.At(cell)
		if !ok || d == 0 {
			continue
		}
		it, _ := s.Board.ItemAt(cell)
		score := c.tuning.itemValue(it.Type, s.Snapshot.Self, s.Rules) / float64(d+1)
		if !found || score > best {
			target, best, dist, item, found = cell, score, d, it, true
		}
	}
	if !found {
		return domain.Decision{}, false
	}

	path := s.Paths.FindPath(s.Self, target, navigation.Options{})
	next, ok := path.FirstStep()
	if !ok {
		return domain.Decision{}, false
	}
	dist = path.Len()
	priority := CalculatePriority(base, PriorityTerms{
		Value:       best,
		DistanceAdj: float64(5 - dist),
	})
	return moveDecision(s, next, target, priority, fmt.Sprintf("collect %s at %s (%d steps)", item.Type, target, dist))
}
