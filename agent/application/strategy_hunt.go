package application

import (
	"fmt"
	"slices"

	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

// HuntStrategy は最も近い敵を爆風の射線に入れられるセルへ向かいます。
type HuntStrategy struct {
	tuning Tuning
}

func NewHuntStrategy(t Tuning) *HuntStrategy {
	return &HuntStrategy{tuning: t}
}

func (h *HuntStrategy) Name() string {
	return NameHunt
}

func (h *HuntStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	enemies := s.Enemies()
	if len(enemies) == 0 || s.Capacity <= 0 {
		return domain.Decision{}, false
	}
	targets := make([]domain.Cell, 0, len(enemies))
	for _, e := range enemies {
		targets = append(targets, s.EnemyCell(e))
	}

	// すでに射線上なら設置は place_explosive に任せる
	if hitsAny(s, s.Self, targets) {
		return domain.Decision{}, false
	}

	field := s.SafeField()
	var spots []domain.Cell
	for _, c := range field.Reachable() {
		if c != s.Self && hitsAny(s, c, targets) {
			spots = append(spots, c)
		}
	}
	if len(spots) == 0 {
		return domain.Decision{}, false
	}

	path := s.Paths.FindShortestPath(s.Self, spots, navigation.Options{})
	next, ok := path.FirstStep()
	if !ok {
		return domain.Decision{}, false
	}
	goal, _ := path.Goal()
	priority := CalculatePriority(base, PriorityTerms{
		Value:       10,
		DistanceAdj: float64(4 - path.Len()),
	})
	return moveDecision(s, next, goal, priority, fmt.Sprintf("line up enemy from %s", goal))
}

func hitsAny(s *Situation, from domain.Cell, targets []domain.Cell) bool {
	for _, c := range domain.BlastCells(s.Board, from, s.BombRange) {
		if slices.Contains(targets, c) {
			return true
		}
	}
	return false
}
