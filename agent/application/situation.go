package application

import (
	"bomberbot/agent/domain"
	"bomberbot/agent/navigation"
)

// Threat は外部スケジューラが判断間隔を決めるための危険度です。
type Threat uint8

const (
	ThreatNone      Threat = iota
	ThreatNear             // 近くに危険セルか敵がいる
	ThreatImmediate        // 自分のセルが危険
)

func (t Threat) String() string {
	switch t {
	case ThreatNear:
		return "near"
	case ThreatImmediate:
		return "immediate"
	}
	return "none"
}

// 危険セルがこの距離 (セル) 以内にあれば ThreatNear
const nearThreatRadius = 2

// Situation は1tick分の判断材料です。Engine が作り、全戦略で共有します。
type Situation struct {
	Snapshot *domain.Snapshot
	Rules    domain.Rules
	Tuning   Tuning
	Grid     domain.Grid
	Board    *domain.Board
	Hazard   *domain.HazardMap
	Paths    *navigation.Pathfinder

	Self      domain.Cell
	Aligned   bool
	Capacity  int     // 残りの設置可能数
	Speed     float64 // px/s
	BombRange int

	enemies []domain.Bot
	field   *navigation.DistanceField
}

// NewSituation はスナップショットから盤面・危険マップ・探索器を組み立てます。
// 欠けているコレクションは空として扱います。
func NewSituation(rules domain.Rules, tuning Tuning, snap *domain.Snapshot) *Situation {
	width, height := snap.Map.Width, snap.Map.Height
	grid := domain.NewGrid(rules, width, height)
	board := domain.NewBoard(grid, &snap.Map)
	hazard := domain.NewHazardMap(board, snap.Map.Bombs)

	self := snap.Self
	capacity := self.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	speed := self.Speed
	if speed <= 0 {
		speed = rules.AgentSpeed
	}
	bombRange := self.Range
	if bombRange <= 0 {
		bombRange = rules.FlameRange
	}

	return &Situation{
		Snapshot:  snap,
		Rules:     rules,
		Tuning:    tuning,
		Grid:      grid,
		Board:     board,
		Hazard:    hazard,
		Paths:     navigation.NewPathfinder(board, hazard, tuning.Navigation),
		Self:      grid.EntityCell(self.Position),
		Aligned:   grid.IsAligned(self.Position),
		Capacity:  capacity - snap.OwnBombs(),
		Speed:     speed,
		BombRange: bombRange,
		enemies:   snap.LiveEnemies(),
	}
}

// InHazard は自分のセルが爆風に含まれるかを返します。
func (s *Situation) InHazard() bool {
	return s.Hazard.Contains(s.Self)
}

func (s *Situation) Enemies() []domain.Bot {
	return s.enemies
}

func (s *Situation) EnemyCell(e domain.Bot) domain.Cell {
	return s.Grid.EntityCell(e.Position)
}

// SafeField は自分のセルから危険セルを避けて歩ける範囲のBFS距離です。tick内で使い回します。
func (s *Situation) SafeField() *navigation.DistanceField {
	if s.field == nil {
		s.field = s.Paths.Distances(s.Self, navigation.Options{})
	}
	return s.field
}

// Threat は現在の危険度を返します。
func (s *Situation) Threat() Threat {
	if s.InHazard() {
		return ThreatImmediate
	}
	for _, c := range s.Hazard.Cells() {
		if c.Manhattan(s.Self) <= nearThreatRadius {
			return ThreatNear
		}
	}
	for _, e := range s.enemies {
		if s.EnemyCell(e).Manhattan(s.Self) <= s.Tuning.AvoidRadius {
			return ThreatNear
		}
	}
	return ThreatNone
}

// BombYield は cell に置いた場合に爆風へ入る障害物・敵・アイテムの数です。
type BombYield struct {
	Obstacles int
	Enemies   int
	Items     int
}

// Score は ObstacleWeight·障害物 + EnemyWeight·敵 − ItemPenalty·アイテム です。
func (y BombYield) Score(t Tuning) float64 {
	return t.ObstacleWeight*float64(y.Obstacles) + t.EnemyWeight*float64(y.Enemies) - t.ItemPenalty*float64(y.Items)
}

// YieldAt は cell に自分の火力で爆弾を置いたときの効果を数えます。
func (s *Situation) YieldAt(cell domain.Cell) BombYield {
	var y BombYield
	blast := domain.BlastCells(s.Board, cell, s.BombRange)
	inBlast := make(map[domain.Cell]struct{}, len(blast))
	for _, c := range blast {
		inBlast[c] = struct{}{}
		if s.Board.IsObstacle(c) {
			y.Obstacles++
		}
		if _, ok := s.Board.ItemAt(c); ok {
			y.Items++
		}
	}
	for _, e := range s.enemies {
		if _, ok := inBlast[s.EnemyCell(e)]; ok {
			y.Enemies++
		}
	}
	return y
}

// SimulatedBomb は cell に今置いた場合の自分の爆弾です。
func (s *Situation) SimulatedBomb(cell domain.Cell) domain.Bomb {
	return domain.Bomb{
		OwnerID:  s.Snapshot.Self.ID,
		Position: s.Grid.CellCorner(cell),
		Fuse:     s.Rules.FuseDuration,
		Range:    s.BombRange,
	}
}
