package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// floor の丸め誤差対策 (セル境界ちょうどの座標が1つ前のセルに落ちないように)
const cellEpsilon = 1e-9

// MaxCells はグリッドが扱えるセル数の上限です。これを超えるマップは受け付けません。
const MaxCells = 1 << 16

var (
	ErrInvalidRules   = errors.New("invalid game rules")
	ErrInvalidMapSize = errors.New("invalid map size")
)

// Rules はゲーム側から与えられる固定パラメータです。
type Rules struct {
	CellSize       float64       // セルの一辺 (px)
	Footprint      float64       // ボットのバウンディングボックスの一辺 (px)
	AgentSpeed     float64       // 移動速度 (px/s)
	FuseDuration   time.Duration // 設置直後の導火線の長さ
	FlameRange     int           // デフォルトの火力 (セル)
	AlignTolerance float64       // セル中心に揃っているとみなす誤差 (px)
}

func DefaultRules() Rules {
	return Rules{
		CellSize:       32,
		Footprint:      26,
		AgentSpeed:     120,
		FuseDuration:   3 * time.Second,
		FlameRange:     2,
		AlignTolerance: 2,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.CellSize <= 0:
		return errors.Join(ErrInvalidRules, errors.New("cell size must be positive"))
	case r.Footprint < 0 || r.Footprint > r.CellSize:
		return errors.Join(ErrInvalidRules, errors.New("footprint must be within [0, cell size]"))
	case r.AgentSpeed <= 0:
		return errors.Join(ErrInvalidRules, errors.New("agent speed must be positive"))
	case r.FuseDuration <= 0:
		return errors.Join(ErrInvalidRules, errors.New("fuse duration must be positive"))
	case r.FlameRange < 1:
		return errors.Join(ErrInvalidRules, errors.New("flame range must be at least 1"))
	case r.AlignTolerance < 0:
		return errors.Join(ErrInvalidRules, errors.New("align tolerance must not be negative"))
	}
	return nil
}

// Grid はピクセル座標とセル座標の相互変換を行います。値型で副作用はありません。
type Grid struct {
	CellSize       float64
	Footprint      float64
	AlignTolerance float64
	Cols, Rows     int
}

// NewGrid はマップのピクセルサイズからグリッドを作ります。
// ValidateMapSize を通らないサイズでは 0x0 のグリッドになります。
func NewGrid(rules Rules, width, height float64) Grid {
	g := Grid{
		CellSize:       rules.CellSize,
		Footprint:      rules.Footprint,
		AlignTolerance: rules.AlignTolerance,
	}
	if ValidateMapSize(rules, width, height) != nil {
		return g
	}
	g.Cols, g.Rows = cellSpan(width, rules.CellSize), cellSpan(height, rules.CellSize)
	return g
}

// ValidateMapSize はマップのピクセルサイズが 1 セル以上 MaxCells 以下のグリッドになるかを検査します。
func ValidateMapSize(rules Rules, width, height float64) error {
	if !(rules.CellSize > 0) || math.IsInf(rules.CellSize, 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidMapSize, rules.CellSize)
	}
	// NaN は比較がすべて false になるので !(x > 0) で弾く
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidMapSize, width, height)
	}
	cols := math.Ceil(width/rules.CellSize - cellEpsilon)
	rows := math.Ceil(height/rules.CellSize - cellEpsilon)
	if cols < 1 || rows < 1 || cols*rows > MaxCells {
		return fmt.Errorf("%w: %vx%v cells", ErrInvalidMapSize, cols, rows)
	}
	return nil
}

func cellSpan(length, cellSize float64) int {
	return int(math.Ceil(length/cellSize - cellEpsilon))
}

// ToCell は点が含まれるセルを返します。壁・障害物・アイテム・爆弾用。
func (g Grid) ToCell(p Position) Cell {
	return Cell{
		Col: int(math.Floor(p.X/g.CellSize + cellEpsilon)),
		Row: int(math.Floor(p.Y/g.CellSize + cellEpsilon)),
	}
}

// EntityCell は左上座標を持つエンティティの論理セルを返します。
// 角ではなく中心で判定するので、ボットが実際に占有している領域に追従します。
func (g Grid) EntityCell(corner Position) Cell {
	return g.ToCell(g.EntityCenter(corner))
}

func (g Grid) EntityCenter(corner Position) Position {
	half := g.Footprint / 2
	return corner.Add(half, half)
}

func (g Grid) CellCorner(c Cell) Position {
	return Position{X: float64(c.Col) * g.CellSize, Y: float64(c.Row) * g.CellSize}
}

func (g Grid) CellCenter(c Cell) Position {
	half := g.CellSize / 2
	return g.CellCorner(c).Add(half, half)
}

// AlignedCorner はエンティティをセル c の中心に置いたときの左上座標です。
func (g Grid) AlignedCorner(c Cell) Position {
	half := g.Footprint / 2
	return g.CellCenter(c).Add(-half, -half)
}

// IsAligned はエンティティ中心が所属セルの中心から両軸とも許容誤差内にあるかを返します。
// 爆風はセル単位なので、ずれたまま設置すると射程が無駄になります。
func (g Grid) IsAligned(corner Position) bool {
	dx, dy := g.CenterDelta(corner, g.EntityCell(corner))
	return absFloat(dx) <= g.AlignTolerance && absFloat(dy) <= g.AlignTolerance
}

// CenterDelta はエンティティ中心からセル中心までの差分 (dx, dy) を返します。
func (g Grid) CenterDelta(corner Position, target Cell) (dx, dy float64) {
	return g.CellCenter(target).Sub(g.EntityCenter(corner))
}

// DistanceBetweenCenters は2つのエンティティの中心間距離です。
// 左上同士を比較すると片方の軸に偏るので、必ず中心に正規化してから差を取ります。
func (g Grid) DistanceBetweenCenters(a, b Position) float64 {
	dx, dy := g.EntityCenter(b).Sub(g.EntityCenter(a))
	return math.Hypot(dx, dy)
}

// StepToward はエンティティをセル target の中心へ寄せる1手を返します。
func (g Grid) StepToward(corner Position, target Cell) Direction {
	dx, dy := g.CenterDelta(corner, target)
	return AlignStep(dx, dy, g.AlignTolerance)
}

func (g Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < g.Cols && c.Row < g.Rows
}

func (g Grid) CellCount() int {
	return g.Cols * g.Rows
}

// Index はセルのフラットインデックスです。範囲外なら -1。
func (g Grid) Index(c Cell) int {
	if !g.InBounds(c) {
		return -1
	}
	return c.Row*g.Cols + c.Col
}

func (g Grid) CellAt(index int) Cell {
	return Cell{Col: index % g.Cols, Row: index / g.Cols}
}

// AlignStep はオフセット (dx, dy) を縮める方向を返します。
// 両軸とも tol 以内なら DirectionNone。両軸ともずれている場合は小さい方の軸を先に揃えます。
func AlignStep(dx, dy, tol float64) Direction {
	ax, ay := absFloat(dx), absFloat(dy)
	if ax <= tol && ay <= tol {
		return DirectionNone
	}

	var horizontal bool
	switch {
	case ax <= tol:
	case ay <= tol:
		horizontal = true
	default:
		horizontal = ax <= ay
	}

	if horizontal {
		if dx > 0 {
			return DirectionRight
		}
		return DirectionLeft
	}
	if dy > 0 {
		return DirectionDown
	}
	return DirectionUp
}
