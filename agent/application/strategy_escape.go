package application

import (
	"fmt"
	"time"

	"bomberbot/agent/domain"
)

// EscapeStrategy は自分のセルが爆風に入っているときに最寄りの安全セルへ逃げます。
// 安全セルへの経路がなければ導火線がより長い隣接セルへ、それもなければ停止します。
type EscapeStrategy struct {
	tuning Tuning
	placed placementMemory
}

func NewEscapeStrategy(t Tuning) *EscapeStrategy {
	return &EscapeStrategy{tuning: t}
}

func (e *EscapeStrategy) Name() string {
	return NameEscape
}

func (e *EscapeStrategy) Observe(s *Situation, d domain.Decision) {
	e.placed.observeBomb(s, d)
}

func (e *EscapeStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	if !s.InHazard() {
		return domain.Decision{}, false
	}

	urgency := e.urgency(s)

	if path := s.Paths.NearestSafe(s.Self, s.Speed); !path.Empty() {
		next, ok := path.FirstStep()
		goal, _ := path.Goal()
		if ok {
			priority := CalculatePriority(base, PriorityTerms{
				Urgency:     urgency,
				DistanceAdj: float64(3 - path.Len()),
				SafetyAdj:   10,
			})
			if d, ok := moveDecision(s, next, goal, priority, fmt.Sprintf("escape %sto %s in %d steps", e.threatSource(s), goal, path.Len())); ok {
				return d, true
			}
		}
	}

	// 安全セルに届かない: 爆発が遅い方へ
	if next, ok := e.saferNeighbor(s); ok {
		priority := CalculatePriority(base, PriorityTerms{Urgency: urgency, SafetyAdj: -10})
		if d, ok := moveDecision(s, next, next, priority, fmt.Sprintf("no safe cell, retreat to %s", next)); ok {
			return d, true
		}
	}

	return domain.Decision{
		Action:    domain.ActionStop,
		Priority:  CalculatePriority(base, PriorityTerms{Urgency: urgency, SafetyAdj: -20}),
		Rationale: "in blast with no way out",
	}, true
}

// urgency は自分のセルが爆発するまでの近さです。直前に自分で置いた爆弾だけなら 0。
func (e *EscapeStrategy) urgency(s *Situation) float64 {
	if cell, recent := e.placed.within(s.Snapshot.ReceivedAt, e.tuning.EscapeGrace); recent {
		if s.Hazard.ThreatenedOnlyBy(s.Self, cell) {
			return 0
		}
	}
	fuse, ok := s.Hazard.FuseAt(s.Self)
	if !ok || s.Rules.FuseDuration <= 0 {
		return 0
	}
	ratio := 1 - float64(fuse)/float64(s.Rules.FuseDuration)
	return 20 * max(0, min(1, ratio))
}

// threatSource は自分のセルを狙う爆弾が1つだけならその持ち主を rationale 用に返します。
func (e *EscapeStrategy) threatSource(s *Situation) string {
	origins := s.Hazard.Origins(s.Self)
	if len(origins) != 1 {
		return ""
	}
	owner, ok := s.Hazard.OwnedBy(origins[0])
	if !ok {
		return ""
	}
	return fmt.Sprintf("from %s's bomb at %s ", owner, origins[0])
}

// saferNeighbor は現在のセルより爆発が遅い (または安全な) 移動可能な隣接セルを返します。
func (e *EscapeStrategy) saferNeighbor(s *Situation) (domain.Cell, bool) {
	current, _ := s.Hazard.FuseAt(s.Self)
	var (
		best     domain.Cell
		bestFuse time.Duration
		found    bool
	)
	for _, d := range domain.Directions {
		n := s.Self.Neighbor(d)
		if !s.Board.Walkable(n) {
			continue
		}
		fuse, threatened := s.Hazard.FuseAt(n)
		if !threatened {
			return n, true
		}
		if fuse <= current {
			continue
		}
		if !found || fuse > bestFuse {
			best, bestFuse, found = n, fuse, true
		}
	}
	return best, found
}
