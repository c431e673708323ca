package utils

import (
	"math"

	"bomberbot/agent/domain"
)

// FinitePosition は座標が NaN や ±Inf を含まないかを返します。
func FinitePosition(p domain.Position) bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
