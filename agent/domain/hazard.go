package domain

import (
	"time"

	"github.com/zyedidia/generic/mapset"
)

// BlastCells は origin に置かれた爆弾の爆風が届くセルを返します。
// 各方向に range セルまで伸び、壁の手前で止まり、障害物はそのセルを含めて止まります。
func BlastCells(board *Board, origin Cell, rng int) []Cell {
	if !board.Grid.InBounds(origin) {
		return nil
	}
	cells := make([]Cell, 0, 1+4*rng)
	cells = append(cells, origin)
	for _, d := range Directions {
		c := origin
		for i := 0; i < rng; i++ {
			c = c.Neighbor(d)
			if !board.Grid.InBounds(c) {
				break
			}
			if board.IsWall(c) {
				break
			}
			cells = append(cells, c)
			if board.IsObstacle(c) {
				break
			}
		}
	}
	return cells
}

type threat struct {
	origin Cell
	fuse   time.Duration
}

type armedBomb struct {
	bomb   Bomb
	origin Cell
	blast  []Cell
	fuse   time.Duration // 誘爆を考慮した実効値
}

// HazardMap は現在危険なセルの集合です。
// 同じセルを複数の爆弾が狙う場合でも判定は1つの bool で、脱出の時間計算には最小の残り時間を使います。
type HazardMap struct {
	board   *Board
	cells   mapset.Set[Cell]
	threats map[Cell][]threat
	armed   []armedBomb
}

func NewHazardMap(board *Board, bombs []Bomb) *HazardMap {
	h := &HazardMap{
		board:   board,
		cells:   mapset.New[Cell](),
		threats: make(map[Cell][]threat),
		armed:   make([]armedBomb, 0, len(bombs)),
	}
	for _, b := range bombs {
		rng := b.Range
		if rng < 0 {
			rng = 0
		}
		origin := board.Grid.ToCell(b.Position)
		h.armed = append(h.armed, armedBomb{
			bomb:   b,
			origin: origin,
			blast:  BlastCells(board, origin, rng),
			fuse:   b.Fuse,
		})
	}

	h.propagateChains()

	for _, a := range h.armed {
		for _, c := range a.blast {
			h.cells.Put(c)
			h.threats[c] = append(h.threats[c], threat{origin: a.origin, fuse: a.fuse})
		}
	}
	return h
}

// propagateChains は誘爆を反映します。爆風内の爆弾はその爆弾より遅れて爆発しません。
func (h *HazardMap) propagateChains() {
	changed := true
	for changed {
		changed = false
		for i := range h.armed {
			for _, c := range h.armed[i].blast {
				for j := range h.armed {
					if i == j || h.armed[j].origin != c {
						continue
					}
					if h.armed[j].fuse > h.armed[i].fuse {
						h.armed[j].fuse = h.armed[i].fuse
						changed = true
					}
				}
			}
		}
	}
}

// WithBomb は仮想的に爆弾を1つ追加したマップを新しく作ります。元のマップは変更しません。
func (h *HazardMap) WithBomb(b Bomb) *HazardMap {
	bombs := make([]Bomb, 0, len(h.armed)+1)
	for _, a := range h.armed {
		bombs = append(bombs, a.bomb)
	}
	bombs = append(bombs, b)
	return NewHazardMap(h.board, bombs)
}

func (h *HazardMap) Contains(c Cell) bool {
	return h.cells.Has(c)
}

// IsSafe はどの爆弾の爆風にも含まれないかを返します。
func (h *HazardMap) IsSafe(c Cell) bool {
	return !h.cells.Has(c)
}

// ContainsIgnoring は origin の爆弾以外から狙われているかを返します。
func (h *HazardMap) ContainsIgnoring(c Cell, origin Cell) bool {
	for _, t := range h.threats[c] {
		if t.origin != origin {
			return true
		}
	}
	return false
}

// ThreatenedBy は origin の爆弾の爆風に含まれるかを返します。
func (h *HazardMap) ThreatenedBy(c Cell, origin Cell) bool {
	for _, t := range h.threats[c] {
		if t.origin == origin {
			return true
		}
	}
	return false
}

// FuseAt はセルを狙う爆弾のうち最も早い残り時間を返します。
func (h *HazardMap) FuseAt(c Cell) (time.Duration, bool) {
	ts, ok := h.threats[c]
	if !ok || len(ts) == 0 {
		return 0, false
	}
	m := ts[0].fuse
	for _, t := range ts[1:] {
		if t.fuse < m {
			m = t.fuse
		}
	}
	return m, true
}

// EffectiveFuse は origin の爆弾の誘爆込みの残り時間です。
func (h *HazardMap) EffectiveFuse(origin Cell) (time.Duration, bool) {
	found := false
	var m time.Duration
	for _, a := range h.armed {
		if a.origin != origin {
			continue
		}
		if !found || a.fuse < m {
			m = a.fuse
		}
		found = true
	}
	return m, found
}

// OwnedBy は origin にある爆弾の所有者を返します。
func (h *HazardMap) OwnedBy(origin Cell) (string, bool) {
	for _, a := range h.armed {
		if a.origin == origin {
			return a.bomb.OwnerID, true
		}
	}
	return "", false
}

// Origins はセルを狙っている爆弾の位置を返します。
func (h *HazardMap) Origins(c Cell) []Cell {
	ts := h.threats[c]
	origins := make([]Cell, 0, len(ts))
	for _, t := range ts {
		origins = append(origins, t.origin)
	}
	return origins
}

func (h *HazardMap) Len() int {
	return h.cells.Size()
}

// Cells は危険セルを行優先で返します。
func (h *HazardMap) Cells() []Cell {
	cells := make([]Cell, 0, h.cells.Size())
	h.cells.Each(func(c Cell) {
		cells = append(cells, c)
	})
	SortCells(cells)
	return cells
}

// MinFuse は全爆弾の中で最も早い残り時間です。
func (h *HazardMap) MinFuse() (time.Duration, bool) {
	if len(h.armed) == 0 {
		return 0, false
	}
	m := h.armed[0].fuse
	for _, a := range h.armed[1:] {
		if a.fuse < m {
			m = a.fuse
		}
	}
	return m, true
}

// ThreatenedOnlyBy は origin の爆弾だけに狙われているかを返します。
func (h *HazardMap) ThreatenedOnlyBy(c Cell, origin Cell) bool {
	return h.ThreatenedBy(c, origin) && !h.ContainsIgnoring(c, origin)
}
