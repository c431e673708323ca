package domain

import (
	"fmt"
	"time"
)

// SelfID はレイアウトから作った自分のボットのIDです。
const SelfID = "self"

// SnapshotFromLayout は文字列のマップからSnapshotを作ります。テストとリプレイ用。
//
//	'#' 壁, '+' 障害物, 'A' 自分, 'E' 敵, 'b' 自分の爆弾, 'x' 敵の爆弾,
//	'1' bomb_up, '2' flame_up, '3' speed_up, それ以外は空きセル
//
// ボットはセル中心に揃えて置かれ、爆弾は rules の導火線と火力を持ちます。
func SnapshotFromLayout(rules Rules, layout []string) *Snapshot {
	cols := 0
	for _, row := range layout {
		if len(row) > cols {
			cols = len(row)
		}
	}
	grid := NewGrid(rules, float64(cols)*rules.CellSize, float64(len(layout))*rules.CellSize)

	snap := &Snapshot{
		Map: GameMap{
			Width:  float64(cols) * rules.CellSize,
			Height: float64(len(layout)) * rules.CellSize,
		},
		TimeRemaining: 2 * time.Minute,
		Round:         1,
		ReceivedAt:    time.Unix(0, 0),
	}
	newBot := func(id string, c Cell) Bot {
		return Bot{
			ID:       id,
			Position: grid.AlignedCorner(c),
			Speed:    rules.AgentSpeed,
			Capacity: 1,
			Range:    rules.FlameRange,
			Alive:    true,
		}
	}

	enemies := 0
	for row, line := range layout {
		for col, ch := range line {
			c := Cell{Col: col, Row: row}
			corner := grid.CellCorner(c)
			switch ch {
			case '#':
				snap.Map.Walls = append(snap.Map.Walls, corner)
			case '+':
				snap.Map.Obstacles = append(snap.Map.Obstacles, corner)
			case 'A':
				snap.Self = newBot(SelfID, c)
			case 'E':
				enemies++
				snap.Enemies = append(snap.Enemies, newBot(fmt.Sprintf("enemy-%d", enemies), c))
			case 'b', 'x':
				owner := SelfID
				if ch == 'x' {
					owner = "enemy"
				}
				snap.Map.Bombs = append(snap.Map.Bombs, Bomb{
					OwnerID:  owner,
					Position: corner,
					Fuse:     rules.FuseDuration,
					Range:    rules.FlameRange,
				})
			case '1', '2', '3':
				snap.Map.Items = append(snap.Map.Items, Item{Type: ItemType(ch - '0'), Position: corner})
			}
		}
	}
	snap.Map.Bots = append(snap.Map.Bots, snap.Self)
	snap.Map.Bots = append(snap.Map.Bots, snap.Enemies...)
	return snap
}
