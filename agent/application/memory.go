package application

import (
	"sync"
	"time"

	"bomberbot/agent/domain"
)

// placementMemory は自分が最後に爆弾を置いたセルと時刻です。
// 時刻はスナップショットの受信時刻なので、同じスナップショットを評価し直しても結果は変わりません。
type placementMemory struct {
	mu   sync.Mutex
	cell domain.Cell
	at   time.Time
	set  bool
}

func (m *placementMemory) record(cell domain.Cell, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cell, m.at, m.set = cell, at, true
}

// within は now が記録から window 以内かを返します。記録と同時刻なら false。
func (m *placementMemory) within(now time.Time, window time.Duration) (domain.Cell, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set || !m.at.Before(now) {
		return domain.Cell{}, false
	}
	return m.cell, now.Sub(m.at) < window
}

// observeBomb は採用された行動が BOMB ならそのセルと時刻を記録します。
func (m *placementMemory) observeBomb(s *Situation, d domain.Decision) {
	if d.Action != domain.ActionBomb {
		return
	}
	m.record(s.Self, s.Snapshot.ReceivedAt)
}
