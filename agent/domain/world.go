package domain

import (
	"time"
)

// ItemType はアイテムの種類です。
type ItemType uint8

const (
	ItemUnknown ItemType = iota
	ItemBombUp           // 同時設置数 +1
	ItemFlameUp          // 火力 +1
	ItemSpeedUp          // 移動速度アップ
)

func (t ItemType) String() string {
	switch t {
	case ItemBombUp:
		return "bomb_up"
	case ItemFlameUp:
		return "flame_up"
	case ItemSpeedUp:
		return "speed_up"
	}
	return "unknown"
}

// Item はマップ上に落ちているアイテムです。Position はセルに揃った座標です。
type Item struct {
	Type     ItemType
	Position Position
}

// Bomb は設置済みの爆弾です。
type Bomb struct {
	OwnerID  string
	Position Position
	Fuse     time.Duration // 残り時間
	Range    int           // 火力 (セル)
}

// Bot はフィールド上のプレイヤーです。Position は左上座標です。
type Bot struct {
	ID       string
	Position Position
	Speed    float64 // px/s
	Capacity int     // 同時に設置できる爆弾の数
	Range    int
	Alive    bool
	Score    int
}

// GameMap はある時点のマップ全体です。各コレクションは順序を持たない集合として扱います。
type GameMap struct {
	Width, Height float64
	Walls         []Position // 破壊不能
	Obstacles     []Position // 破壊可能 (chest)
	Items         []Item
	Bombs         []Bomb
	Bots          []Bot
}

// Snapshot は1tick分のワールドの状態です。受け取ったtickが所有し、コアは書き換えません。
type Snapshot struct {
	Map           GameMap
	Self          Bot
	Enemies       []Bot
	TimeRemaining time.Duration
	Round         int
	Tick          uint64
	ReceivedAt    time.Time
}

// OwnBombs は自分が設置した爆弾の数を返します。
func (s *Snapshot) OwnBombs() int {
	n := 0
	for _, b := range s.Map.Bombs {
		if b.OwnerID == s.Self.ID {
			n++
		}
	}
	return n
}

// LiveEnemies は生存している敵のみを返します。
func (s *Snapshot) LiveEnemies() []Bot {
	live := make([]Bot, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		if e.Alive {
			live = append(live, e)
		}
	}
	return live
}
