package navigation

import "bomberbot/agent/domain"

// Path は開始セルを含むセルの列です。到達不能なら空です。
type Path struct {
	Cells []domain.Cell
}

func (p Path) Empty() bool {
	return len(p.Cells) == 0
}

// Len は歩数です。開始セル自体がゴールなら 0。
func (p Path) Len() int {
	if len(p.Cells) == 0 {
		return 0
	}
	return len(p.Cells) - 1
}

// FirstStep は開始セルの次のセルを返します。
func (p Path) FirstStep() (domain.Cell, bool) {
	if len(p.Cells) < 2 {
		return domain.Cell{}, false
	}
	return p.Cells[1], true
}

func (p Path) Goal() (domain.Cell, bool) {
	if len(p.Cells) == 0 {
		return domain.Cell{}, false
	}
	return p.Cells[len(p.Cells)-1], true
}

// Centers はセル中心のピクセル座標列です。
func (p Path) Centers(g domain.Grid) []domain.Position {
	centers := make([]domain.Position, 0, len(p.Cells))
	for _, c := range p.Cells {
		centers = append(centers, g.CellCenter(c))
	}
	return centers
}

// DistanceField は1つの開始セルからのBFS距離です。複数の候補を一度に評価するときに使います。
type DistanceField struct {
	grid   domain.Grid
	start  domain.Cell
	dist   []int
	parent []int
	order  []int // 訪問順 (距離の昇順)
}

// At はセルまでの歩数を返します。到達不能なら false。
func (f *DistanceField) At(c domain.Cell) (int, bool) {
	i := f.grid.Index(c)
	if i < 0 || f.dist[i] < 0 {
		return 0, false
	}
	return f.dist[i], true
}

// Reachable は到達可能なセルを訪問順 (距離の昇順) で返します。開始セルを含みます。
func (f *DistanceField) Reachable() []domain.Cell {
	cells := make([]domain.Cell, 0, len(f.order))
	for _, i := range f.order {
		cells = append(cells, f.grid.CellAt(i))
	}
	return cells
}

func (f *DistanceField) Start() domain.Cell {
	return f.start
}

// PathTo は開始セルから c までの最短経路を復元します。
func (f *DistanceField) PathTo(c domain.Cell) Path {
	i := f.grid.Index(c)
	if i < 0 || f.dist[i] < 0 {
		return Path{}
	}
	return reconstruct(f.grid, f.parent, i)
}

func reconstruct(g domain.Grid, parent []int, goal int) Path {
	var rev []domain.Cell
	for i := goal; i >= 0; i = parent[i] {
		rev = append(rev, g.CellAt(i))
	}
	cells := make([]domain.Cell, len(rev))
	for i, c := range rev {
		cells[len(rev)-1-i] = c
	}
	return Path{Cells: cells}
}
