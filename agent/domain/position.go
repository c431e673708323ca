package domain

import (
	"fmt"
	"math"
)

// Position はピクセル単位の連続座標です。
// 特に断りがない限りエンティティのバウンディングボックス左上を指します。
type Position struct {
	X, Y float64
}

func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) Sub(o Position) (dx, dy float64) {
	return p.X - o.X, p.Y - o.Y
}

func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Cell はグリッド上のマス目 (col, row) です。
type Cell struct {
	Col, Row int
}

func (c Cell) String() string {
	return fmt.Sprintf("[%d,%d]", c.Col, c.Row)
}

// Neighbor は指定方向に隣接するマスを返します。
func (c Cell) Neighbor(d Direction) Cell {
	dc, dr := d.Delta()
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Manhattan は2マス間のマンハッタン距離を返します。
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.Col-o.Col) + absInt(c.Row-o.Row)
}

// DirectionTo は隣接マス o への方向を返します。隣接していなければ DirectionNone。
func (c Cell) DirectionTo(o Cell) Direction {
	switch {
	case o.Col == c.Col && o.Row == c.Row-1:
		return DirectionUp
	case o.Col == c.Col && o.Row == c.Row+1:
		return DirectionDown
	case o.Row == c.Row && o.Col == c.Col-1:
		return DirectionLeft
	case o.Row == c.Row && o.Col == c.Col+1:
		return DirectionRight
	}
	return DirectionNone
}

// Direction は上下左右の移動方向です。
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// Directions は探索で使う固定順の4方向です。
var Directions = [4]Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}

// Delta は (dcol, drow) を返します。
func (d Direction) Delta() (int, int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "UP"
	case DirectionDown:
		return "DOWN"
	case DirectionLeft:
		return "LEFT"
	case DirectionRight:
		return "RIGHT"
	}
	return "NONE"
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func absFloat(f float64) float64 {
	return math.Abs(f)
}
