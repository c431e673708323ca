package navigation

import (
	"bomberbot/agent/domain"
)

// Config は探索の上限と脱出判定の余裕です。
type Config struct {
	VisitFactor  int     // 訪問上限 = VisitFactor × セル数
	EscapeMargin float64 // 脱出時間に足す余裕 (px)
}

func DefaultConfig() Config {
	return Config{
		VisitFactor:  4,
		EscapeMargin: 8,
	}
}

// Options は1回の探索で危険セルをどう扱うかを指定します。
type Options struct {
	// IgnoreHazard が true なら危険セルも通過できる
	IgnoreHazard bool
	// IgnoreBomb が指定されていれば、その爆弾だけに狙われているセルは通過できる
	IgnoreBomb *domain.Cell
}

// Pathfinder はtickごとの盤面と危険マップに対するグリッド探索です。
// 壁と障害物は通れず、爆弾は開始セル以外では通れません。
type Pathfinder struct {
	grid   domain.Grid
	board  *domain.Board
	hazard *domain.HazardMap
	cfg    Config
}

// NewPathfinder は hazard が nil なら危険セルなしとして扱います。
func NewPathfinder(board *domain.Board, hazard *domain.HazardMap, cfg Config) *Pathfinder {
	if cfg.VisitFactor <= 0 {
		cfg.VisitFactor = DefaultConfig().VisitFactor
	}
	if hazard == nil {
		hazard = domain.NewHazardMap(board, nil)
	}
	return &Pathfinder{
		grid:   board.Grid,
		board:  board,
		hazard: hazard,
		cfg:    cfg,
	}
}

func (p *Pathfinder) Hazard() *domain.HazardMap {
	return p.hazard
}

func (p *Pathfinder) visitLimit() int {
	limit := p.cfg.VisitFactor * p.grid.CellCount()
	if limit < 1 {
		return 1
	}
	return limit
}

// Passable は start から探索したときに c に入れるかを返します。
func (p *Pathfinder) Passable(c, start domain.Cell, opts Options) bool {
	if !p.grid.InBounds(c) {
		return false
	}
	if c == start {
		return true
	}
	if !p.board.Walkable(c) {
		return false
	}
	if opts.IgnoreHazard || !p.hazard.Contains(c) {
		return true
	}
	if opts.IgnoreBomb != nil && !p.hazard.ContainsIgnoring(c, *opts.IgnoreBomb) {
		return true
	}
	return false
}

// FindPath は start から goal までの最短経路を A* で探します。
func (p *Pathfinder) FindPath(start, goal domain.Cell, opts Options) Path {
	return p.search(start, []domain.Cell{goal}, opts)
}

// FindShortestPath は goals のうち経路長が最短のものへの経路を返します。
func (p *Pathfinder) FindShortestPath(start domain.Cell, goals []domain.Cell, opts Options) Path {
	return p.search(start, goals, opts)
}

func (p *Pathfinder) search(start domain.Cell, goals []domain.Cell, opts Options) Path {
	if !p.grid.InBounds(start) {
		return Path{}
	}
	n := p.grid.CellCount()
	isGoal := make([]bool, n)
	targets := make([]domain.Cell, 0, len(goals))
	for _, g := range goals {
		if i := p.grid.Index(g); i >= 0 && !isGoal[i] {
			isGoal[i] = true
			targets = append(targets, g)
		}
	}
	if len(targets) == 0 {
		return Path{}
	}

	// ヒューリスティック: 最も近いゴールまでのマンハッタン距離
	h := func(c domain.Cell) int {
		best := -1
		for _, g := range targets {
			if d := c.Manhattan(g); best < 0 || d < best {
				best = d
			}
		}
		return best
	}

	g := make([]int, n)
	parent := make([]int, n)
	for i := range g {
		g[i] = -1
		parent[i] = -1
	}
	closed := make([]bool, n)

	startIdx := p.grid.Index(start)
	g[startIdx] = 0
	open := NewMinHeap[int](n)
	open.Push(startIdx, float64(h(start)))

	visits := 0
	limit := p.visitLimit()
	for open.Len() > 0 {
		idx, _ := open.Pop()
		if closed[idx] {
			continue
		}
		closed[idx] = true
		visits++
		if visits > limit {
			return Path{}
		}
		if isGoal[idx] {
			return reconstruct(p.grid, parent, idx)
		}

		c := p.grid.CellAt(idx)
		for _, d := range domain.Directions {
			nc := c.Neighbor(d)
			if !p.Passable(nc, start, opts) {
				continue
			}
			ni := p.grid.Index(nc)
			if closed[ni] {
				continue
			}
			ng := g[idx] + 1
			if g[ni] >= 0 && ng >= g[ni] {
				continue
			}
			g[ni] = ng
			parent[ni] = idx
			open.Push(ni, float64(ng+h(nc)))
		}
	}
	return Path{}
}

// Distances は start からの BFS 距離を計算します。
func (p *Pathfinder) Distances(start domain.Cell, opts Options) *DistanceField {
	n := p.grid.CellCount()
	f := &DistanceField{
		grid:   p.grid,
		start:  start,
		dist:   make([]int, n),
		parent: make([]int, n),
	}
	for i := range f.dist {
		f.dist[i] = -1
		f.parent[i] = -1
	}
	startIdx := p.grid.Index(start)
	if startIdx < 0 {
		return f
	}
	f.dist[startIdx] = 0
	queue := []int{startIdx}
	limit := p.visitLimit()
	for len(queue) > 0 && len(f.order) < limit {
		idx := queue[0]
		queue = queue[1:]
		f.order = append(f.order, idx)

		c := p.grid.CellAt(idx)
		for _, d := range domain.Directions {
			nc := c.Neighbor(d)
			if !p.Passable(nc, start, opts) {
				continue
			}
			ni := p.grid.Index(nc)
			if f.dist[ni] >= 0 {
				continue
			}
			f.dist[ni] = f.dist[idx] + 1
			f.parent[ni] = idx
			queue = append(queue, ni)
		}
	}
	return f
}
