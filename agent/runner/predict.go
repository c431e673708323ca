package runner

import (
	"math"
	"time"

	"bomberbot/agent/domain"
)

const (
	// 経過時間がこの程度になると信頼度は 1/e まで落ちる
	predictionHorizon = 500 * time.Millisecond
	minConfidence     = 0.5
)

// PredictPosition は last から dir 方向に speed(px/s) で elapsed だけ進んだ位置と、その信頼度 (0..1] を返します。
// 壁との衝突は考慮しません。
func PredictPosition(last domain.Position, elapsed time.Duration, speed float64, dir domain.Direction) (domain.Position, float64) {
	if elapsed <= 0 || speed <= 0 || dir == domain.DirectionNone {
		return last, 1
	}
	dx, dy := dir.Delta()
	dist := speed * elapsed.Seconds()
	confidence := math.Exp(-elapsed.Seconds() / predictionHorizon.Seconds())
	return last.Add(float64(dx)*dist, float64(dy)*dist), confidence
}
