package application

import "math"

const (
	MinPriority = 0.0
	MaxPriority = 100.0
)

// PriorityTerms は共通の優先度式の各項です。各項は範囲外なら境界に丸められます。
//
//	Value       [0, 30]   行動の価値
//	DistanceAdj [-10, 10] 目標までの距離による補正
//	Urgency     [0, 20]   時間的な切迫度
//	SafetyAdj   [-20, 10] 行動後の安全性
//	Penalty     [-30, 0]  損失
type PriorityTerms struct {
	Value       float64
	DistanceAdj float64
	Urgency     float64
	SafetyAdj   float64
	Penalty     float64
}

// CalculatePriority は base に各項を足して [0, 100] に収めます。
// どの戦略の出力も同じ尺度で比較できます。
func CalculatePriority(base float64, t PriorityTerms) float64 {
	sum := clampTerm(base, MinPriority, MaxPriority) +
		clampTerm(t.Value, 0, 30) +
		clampTerm(t.DistanceAdj, -10, 10) +
		clampTerm(t.Urgency, 0, 20) +
		clampTerm(t.SafetyAdj, -20, 10) +
		clampTerm(t.Penalty, -30, 0)
	return clampTerm(sum, MinPriority, MaxPriority)
}

// NaN は 0 として扱う
func clampTerm(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
