package navigation

import (
	"time"

	"bomberbot/agent/domain"
)

// Escape は脱出判定の結果です。
type Escape struct {
	OK     bool
	Path   Path
	Safe   domain.Cell   // 最初に見つかった安全セル
	Travel time.Duration // Safe までの移動時間
	Fuse   time.Duration // 爆弾の実効残り時間
}

// CanEscape は start から bomb の爆風の外へ爆発前に出られるかを判定します。
// bomb が危険マップに含まれていなければ仮想的に追加して判定します。
// 他の爆弾に狙われているセルは通りません。
func (p *Pathfinder) CanEscape(start domain.Cell, bomb domain.Bomb, speed float64) Escape {
	origin := p.grid.ToCell(bomb.Position)
	hazard := p.hazard
	if _, ok := hazard.EffectiveFuse(origin); !ok {
		hazard = hazard.WithBomb(bomb)
	}
	fuse, _ := hazard.EffectiveFuse(origin)
	result := Escape{Fuse: fuse}

	if !p.grid.InBounds(start) || speed <= 0 {
		return result
	}

	passable := func(c domain.Cell) bool {
		if !p.grid.InBounds(c) {
			return false
		}
		if c == start {
			return true
		}
		if c == origin || !p.board.Walkable(c) {
			return false
		}
		return !hazard.ContainsIgnoring(c, origin)
	}

	n := p.grid.CellCount()
	parent := make([]int, n)
	seen := make([]bool, n)
	dist := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	startIdx := p.grid.Index(start)
	seen[startIdx] = true
	queue := []int{startIdx}
	visits := 0
	limit := p.visitLimit()

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		visits++
		if visits > limit {
			return result
		}

		c := p.grid.CellAt(idx)
		if hazard.IsSafe(c) {
			// BFS なので最初の安全セルが最短。ここで間に合わなければ他も間に合わない
			result.Safe = c
			result.Travel = p.travelTime(dist[idx], speed)
			result.Path = reconstruct(p.grid, parent, idx)
			result.OK = result.Travel < fuse
			if !result.OK {
				result.Path = Path{}
			}
			return result
		}

		for _, d := range domain.Directions {
			nc := c.Neighbor(d)
			if !passable(nc) {
				continue
			}
			ni := p.grid.Index(nc)
			if seen[ni] {
				continue
			}
			seen[ni] = true
			dist[ni] = dist[idx] + 1
			parent[ni] = idx
			queue = append(queue, ni)
		}
	}
	return result
}

// travelTime は steps セル分の移動に余裕を足した時間です。
func (p *Pathfinder) travelTime(steps int, speed float64) time.Duration {
	px := float64(steps)*p.grid.CellSize + p.cfg.EscapeMargin
	return time.Duration(px / speed * float64(time.Second))
}

// NearestSafe は危険セルを通過してでも到達できる最も近い安全セルへの経路を返します。
// 経路上で爆発が先に来るセルは通りません。
// start を狙う爆弾が1つだけなら、まず他の爆風に入らない経路を A* で探します。
func (p *Pathfinder) NearestSafe(start domain.Cell, speed float64) Path {
	field := p.Distances(start, Options{IgnoreHazard: true})
	var safe []domain.Cell
	for _, c := range field.Reachable() {
		if p.hazard.IsSafe(c) {
			safe = append(safe, c)
		}
	}
	if len(safe) == 0 {
		return Path{}
	}

	if origins := p.hazard.Origins(start); len(origins) == 1 {
		path := p.FindShortestPath(start, safe, Options{IgnoreBomb: &origins[0]})
		if !path.Empty() && p.pathOutrunsFuse(path, speed) {
			return path
		}
	}

	for _, c := range safe {
		path := field.PathTo(c)
		if p.pathOutrunsFuse(path, speed) {
			return path
		}
	}
	return Path{}
}

// pathOutrunsFuse は経路上の各危険セルに、爆発前に到達して通り抜けられるかを返します。
func (p *Pathfinder) pathOutrunsFuse(path Path, speed float64) bool {
	if speed <= 0 {
		return true
	}
	for i, c := range path.Cells {
		fuse, ok := p.hazard.FuseAt(c)
		if !ok {
			continue
		}
		// そのセルを抜けきるまで (i+1 セル分)
		if i > 0 && p.travelTime(i+1, speed) >= fuse {
			return false
		}
	}
	return true
}
