package application

import (
	"fmt"

	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

// SeekObstacleStrategy は爆風に入る障害物の数/(距離+1) が最大の安全なセルへ向かいます。
type SeekObstacleStrategy struct {
	tuning Tuning
}

func NewSeekObstacleStrategy(t Tuning) *SeekObstacleStrategy {
	return &SeekObstacleStrategy{tuning: t}
}

func (o *SeekObstacleStrategy) Name() string {
	return NameSeekObstacle
}

func (o *SeekObstacleStrategy) Evaluate(s *Situation, base float64) (domain.Decision, bool) {
	if s.Board.ObstacleCount() == 0 {
		return domain.Decision{}, false
	}
	field := s.SafeField()

	var (
		target    domain.Cell
		best      float64
		obstacles int
		dist      int
		found     bool
	)
	for _, c := range field.Reachable() {
		d, _ := field.At(c)
		if d == 0 {
			continue
		}
		n := s.YieldAt(c).Obstacles
		if n == 0 {
			continue
		}
		score := float64(n) / float64(d+1)
		if !found || score > best {
			target, best, obstacles, dist, found = c, score, n, d, true
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
		Value:       5 * float64(obstacles),
		DistanceAdj: float64(3 - dist),
	})
	return moveDecision(s, next, target, priority, fmt.Sprintf("%d obstacles in range from %s", obstacles, target))
}
