package domain_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"bomberbot/agent/domain"
)

func boardFromLayout(t *testing.T, layout []string) (*domain.Board, *domain.Snapshot) {
	t.Helper()
	rules := domain.DefaultRules()
	snap := domain.SnapshotFromLayout(rules, layout)
	grid := domain.NewGrid(rules, snap.Map.Width, snap.Map.Height)
	return domain.NewBoard(grid, &snap.Map), snap
}

func TestHazardMap_WallStopsBlast(t *testing.T) {
	board, snap := boardFromLayout(t, []string{
		"..x..",
		".....",
		"..#..",
		".....",
		".....",
	})
	h := domain.NewHazardMap(board, snap.Map.Bombs)

	want := []domain.Cell{{Col: 2, Row: 0}, {Col: 2, Row: 1}, {Col: 0, Row: 0}, {Col: 1, Row: 0}, {Col: 3, Row: 0}, {Col: 4, Row: 0}}
	for _, c := range want {
		if !h.Contains(c) {
			t.Errorf("Contains(%v) = false, want true", c)
		}
	}
	for _, c := range []domain.Cell{{Col: 2, Row: 2}, {Col: 2, Row: 3}, {Col: 1, Row: 1}} {
		if h.Contains(c) {
			t.Errorf("Contains(%v) = true, want false", c)
		}
	}
	if h.Len() != len(want) {
		t.Errorf("Len = %d, want %d", h.Len(), len(want))
	}
}

func TestHazardMap_ObstacleIncludedThenStops(t *testing.T) {
	board, snap := boardFromLayout(t, []string{
		"x+...",
	})
	h := domain.NewHazardMap(board, snap.Map.Bombs)

	if !h.Contains(domain.Cell{Col: 1, Row: 0}) {
		t.Error("obstacle cell should be in hazard")
	}
	if h.Contains(domain.Cell{Col: 2, Row: 0}) {
		t.Error("blast should stop at obstacle")
	}
}

func TestHazardMap_NoBombs(t *testing.T) {
	board, _ := boardFromLayout(t, []string{"...", "...", "..."})
	h := domain.NewHazardMap(board, nil)
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
	if _, ok := h.MinFuse(); ok {
		t.Error("MinFuse should report no bombs")
	}
	if !h.IsSafe(domain.Cell{Col: 1, Row: 1}) {
		t.Error("every cell should be safe")
	}
}

func TestHazardMap_ChainReactionFuse(t *testing.T) {
	board, _ := boardFromLayout(t, []string{
		".....",
		".....",
	})
	grid := board.Grid
	early := domain.Bomb{OwnerID: "a", Position: grid.CellCorner(domain.Cell{Col: 0, Row: 0}), Fuse: 500 * time.Millisecond, Range: 2}
	late := domain.Bomb{OwnerID: "b", Position: grid.CellCorner(domain.Cell{Col: 2, Row: 0}), Fuse: 3 * time.Second, Range: 2}

	h := domain.NewHazardMap(board, []domain.Bomb{late, early})

	fuse, ok := h.EffectiveFuse(domain.Cell{Col: 2, Row: 0})
	if !ok {
		t.Fatal("EffectiveFuse: bomb not found")
	}
	if fuse != 500*time.Millisecond {
		t.Errorf("EffectiveFuse = %v, want 500ms", fuse)
	}
	// 誘爆した爆弾の爆風も早い時間で評価される
	got, ok := h.FuseAt(domain.Cell{Col: 4, Row: 0})
	if !ok || got != 500*time.Millisecond {
		t.Errorf("FuseAt([4,0]) = %v, %v, want 500ms", got, ok)
	}
}

func TestHazardMap_ContainsIgnoring(t *testing.T) {
	board, _ := boardFromLayout(t, []string{
		".....",
		".....",
		".....",
	})
	grid := board.Grid
	own := domain.Cell{Col: 0, Row: 1}
	other := domain.Cell{Col: 4, Row: 1}
	h := domain.NewHazardMap(board, []domain.Bomb{
		{OwnerID: domain.SelfID, Position: grid.CellCorner(own), Fuse: 3 * time.Second, Range: 1},
		{OwnerID: "enemy", Position: grid.CellCorner(other), Fuse: 2 * time.Second, Range: 2},
	})

	if h.ContainsIgnoring(domain.Cell{Col: 1, Row: 1}, own) {
		t.Error("[1,1] is only threatened by own bomb")
	}
	if !h.ContainsIgnoring(domain.Cell{Col: 2, Row: 1}, own) {
		t.Error("[2,1] is threatened by enemy bomb")
	}
	if owner, ok := h.OwnedBy(own); !ok || owner != domain.SelfID {
		t.Errorf("OwnedBy = %q, %v", owner, ok)
	}
	if !h.ThreatenedBy(domain.Cell{Col: 0, Row: 0}, own) {
		t.Error("[0,0] should be threatened by own bomb")
	}
	if got := h.Origins(domain.Cell{Col: 2, Row: 1}); len(got) != 1 || got[0] != other {
		t.Errorf("Origins([2,1]) = %v, want [%v]", got, other)
	}
	if got := h.Origins(domain.Cell{Col: 0, Row: 0}); len(got) != 1 || got[0] != own {
		t.Errorf("Origins([0,0]) = %v, want [%v]", got, own)
	}
	if got := h.Origins(domain.Cell{Col: 2, Row: 0}); len(got) != 0 {
		t.Errorf("Origins([2,0]) = %v, want none", got)
	}
	if fuse, ok := h.MinFuse(); !ok || fuse != 2*time.Second {
		t.Errorf("MinFuse = %v, %v, want 2s", fuse, ok)
	}
}

func TestHazardMap_WithBombDoesNotMutate(t *testing.T) {
	board, snap := boardFromLayout(t, []string{
		".....",
		"..A..",
		".....",
	})
	h := domain.NewHazardMap(board, nil)
	sim := h.WithBomb(domain.Bomb{OwnerID: domain.SelfID, Position: board.Grid.CellCorner(board.Grid.EntityCell(snap.Self.Position)), Fuse: time.Second, Range: 1})

	if h.Len() != 0 {
		t.Errorf("original Len = %d, want 0", h.Len())
	}
	if sim.Len() != 5 {
		t.Errorf("simulated Len = %d, want 5", sim.Len())
	}
}

// 火力を上げても危険セルは減らない
func TestHazardMap_MonotonicInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		board := randomBoard(t)
		grid := board.Grid
		origin := domain.Cell{
			Col: rapid.IntRange(0, grid.Cols-1).Draw(t, "col"),
			Row: rapid.IntRange(0, grid.Rows-1).Draw(t, "row"),
		}
		rng := rapid.IntRange(0, 5).Draw(t, "range")
		small := domain.NewHazardMap(board, []domain.Bomb{{Position: grid.CellCorner(origin), Fuse: time.Second, Range: rng}})
		large := domain.NewHazardMap(board, []domain.Bomb{{Position: grid.CellCorner(origin), Fuse: time.Second, Range: rng + 1}})

		for _, c := range small.Cells() {
			if !large.Contains(c) {
				t.Fatalf("cell %v lost when range grew to %d", c, rng+1)
			}
		}
	})
}

// 壁を足しても危険セルは増えない
func TestHazardMap_MonotonicInWalls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := domain.DefaultRules()
		grid := domain.NewGrid(rules, 9*rules.CellSize, 9*rules.CellSize)
		m := domain.GameMap{Width: 9 * rules.CellSize, Height: 9 * rules.CellSize}
		origin := domain.Cell{Col: 4, Row: 4}
		bombs := []domain.Bomb{{Position: grid.CellCorner(origin), Fuse: time.Second, Range: rapid.IntRange(1, 5).Draw(t, "range")}}

		before := domain.NewHazardMap(domain.NewBoard(grid, &m), bombs)

		wall := domain.Cell{
			Col: rapid.IntRange(0, 8).Draw(t, "wallCol"),
			Row: rapid.IntRange(0, 8).Draw(t, "wallRow"),
		}
		if wall == origin {
			t.Skip("wall on bomb")
		}
		m.Walls = append(m.Walls, grid.CellCorner(wall))
		after := domain.NewHazardMap(domain.NewBoard(grid, &m), bombs)

		for _, c := range after.Cells() {
			if !before.Contains(c) {
				t.Fatalf("cell %v appeared after adding wall %v", c, wall)
			}
		}
	})
}

func randomBoard(t *rapid.T) *domain.Board {
	rules := domain.DefaultRules()
	cols := rapid.IntRange(3, 10).Draw(t, "cols")
	rows := rapid.IntRange(3, 10).Draw(t, "rows")
	grid := domain.NewGrid(rules, float64(cols)*rules.CellSize, float64(rows)*rules.CellSize)
	m := domain.GameMap{Width: float64(cols) * rules.CellSize, Height: float64(rows) * rules.CellSize}
	for i := 0; i < grid.CellCount(); i++ {
		c := grid.CellAt(i)
		switch rapid.IntRange(0, 5).Draw(t, "tile") {
		case 0:
			m.Walls = append(m.Walls, grid.CellCorner(c))
		case 1:
			m.Obstacles = append(m.Obstacles, grid.CellCorner(c))
		}
	}
	return domain.NewBoard(grid, &m)
}
