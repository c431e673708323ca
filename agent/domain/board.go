package domain

import "sort"

// Tile はセルの静的な地形です。
type Tile uint8

const (
	TileEmpty Tile = iota
	TileWall
	TileObstacle
)

// Board はスナップショットからtickごとに作るセル単位のインデックスです。
// 欠けているコレクションは空として扱います。
type Board struct {
	Grid  Grid
	tiles []Tile
	bombs map[Cell]Bomb
	items map[Cell]Item
}

func NewBoard(grid Grid, m *GameMap) *Board {
	b := &Board{
		Grid:  grid,
		tiles: make([]Tile, grid.CellCount()),
		bombs: make(map[Cell]Bomb),
		items: make(map[Cell]Item),
	}
	if m == nil {
		return b
	}
	for _, p := range m.Walls {
		if i := grid.Index(grid.ToCell(p)); i >= 0 {
			b.tiles[i] = TileWall
		}
	}
	for _, p := range m.Obstacles {
		if i := grid.Index(grid.ToCell(p)); i >= 0 && b.tiles[i] != TileWall {
			b.tiles[i] = TileObstacle
		}
	}
	for _, it := range m.Items {
		c := grid.ToCell(it.Position)
		if grid.InBounds(c) {
			b.items[c] = it
		}
	}
	for _, bomb := range m.Bombs {
		c := grid.ToCell(bomb.Position)
		if !grid.InBounds(c) {
			continue
		}
		// 同じセルに複数ある場合は先に爆発する方を残す
		if prev, ok := b.bombs[c]; ok && prev.Fuse <= bomb.Fuse {
			continue
		}
		b.bombs[c] = bomb
	}
	return b
}

// Tile は範囲外を壁として返します。
func (b *Board) Tile(c Cell) Tile {
	i := b.Grid.Index(c)
	if i < 0 {
		return TileWall
	}
	return b.tiles[i]
}

func (b *Board) IsWall(c Cell) bool {
	return b.Tile(c) == TileWall
}

func (b *Board) IsObstacle(c Cell) bool {
	return b.Tile(c) == TileObstacle
}

func (b *Board) HasBomb(c Cell) bool {
	_, ok := b.bombs[c]
	return ok
}

func (b *Board) ItemAt(c Cell) (Item, bool) {
	it, ok := b.items[c]
	return it, ok
}

// Walkable は地形と爆弾の両方が移動を妨げないかを返します。
func (b *Board) Walkable(c Cell) bool {
	return b.Tile(c) == TileEmpty && !b.HasBomb(c)
}

// ItemCells はアイテムのあるセルを決定的な順序で返します。
func (b *Board) ItemCells() []Cell {
	return sortedCells(b.items)
}

// ObstacleCount は破壊可能な障害物の数です。
func (b *Board) ObstacleCount() int {
	n := 0
	for _, t := range b.tiles {
		if t == TileObstacle {
			n++
		}
	}
	return n
}

// WalkableNeighbors は隣接する移動可能セルの数です。
func (b *Board) WalkableNeighbors(c Cell) int {
	n := 0
	for _, d := range Directions {
		if b.Walkable(c.Neighbor(d)) {
			n++
		}
	}
	return n
}

func sortedCells[V any](m map[Cell]V) []Cell {
	cells := make([]Cell, 0, len(m))
	for c := range m {
		cells = append(cells, c)
	}
	SortCells(cells)
	return cells
}

// SortCells は行優先でセルを並べます。
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
}
