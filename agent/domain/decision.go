package domain

import "fmt"

// Action はtickごとに1つだけ出力される行動の種類です。
type Action uint8

const (
	ActionStop Action = iota
	ActionMove
	ActionBomb
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "MOVE"
	case ActionBomb:
		return "BOMB"
	}
	return "STOP"
}

// Decision は1tickの意思決定結果です。毎tick作り直され、保存されません。
type Decision struct {
	Action    Action
	Direction Direction // ActionMove のときのみ意味を持つ
	Target    *Position
	Priority  float64
	Rationale string
	Source    string // 提案した戦略名
}

// DefaultDecision は提案が1つもないときの安全な既定値です。
func DefaultDecision() Decision {
	return Decision{Action: ActionStop, Priority: 0, Rationale: "no proposal"}
}

func (d Decision) String() string {
	switch d.Action {
	case ActionMove:
		return fmt.Sprintf("MOVE %s (%.1f) %s", d.Direction, d.Priority, d.Rationale)
	case ActionBomb:
		return fmt.Sprintf("BOMB (%.1f) %s", d.Priority, d.Rationale)
	}
	return fmt.Sprintf("STOP (%.1f) %s", d.Priority, d.Rationale)
}
