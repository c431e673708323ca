package domain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// バイトオーダー: リトルエンディアン
var byteOrder = binary.LittleEndian

const (
	ProtocolVersion   = 1
	HeaderSize        = 25
	PayloadHeaderSize = 2
	InputPayloadSize  = 4
	JoinPayloadSize   = 16
)

// Header はメッセージヘッダー (25バイト)
//
//	version    u8      (1)
//	sessionID  [16]byte (16)
//	seq        u16     (2)
//	length     u16     (2)  - ペイロード長
//	timestamp  u32     (4)
type Header struct {
	Version   uint8
	SessionID [16]byte
	Seq       uint16
	Length    uint16
	Timestamp uint32
}

// DataType はメッセージの種別
type DataType uint8

const (
	DataTypeInput   DataType = 1
	DataTypeWorld   DataType = 2
	DataTypeControl DataType = 4
)

// ControlSubType はcontrolメッセージのサブタイプ
type ControlSubType uint8

const (
	ControlSubTypeJoin   ControlSubType = 1
	ControlSubTypeLeave  ControlSubType = 2
	ControlSubTypeKick   ControlSubType = 3
	ControlSubTypePing   ControlSubType = 4
	ControlSubTypePong   ControlSubType = 5
	ControlSubTypeError  ControlSubType = 6
	ControlSubTypeAssign ControlSubType = 7
)

// PayloadHeader はペイロードヘッダー (2バイト)
//
//	datatype  u8 (1)
//	subtype   u8 (1)
type PayloadHeader struct {
	DataType DataType
	SubType  uint8
}

var (
	ErrInvalidHeaderSize       = errors.New("invalid header size")
	ErrInvalidPayloadSize      = errors.New("invalid payload size")
	ErrInvalidInputPayloadSize = errors.New("invalid input payload size")
	ErrInvalidWorldPayload     = errors.New("invalid world payload")
	ErrPayloadTooLarge         = errors.New("payload too large")
)

// ParseHeader はバイト列からHeaderをパースする
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrInvalidHeaderSize
	}

	var sessionID [16]byte
	copy(sessionID[:], data[1:17])

	return &Header{
		Version:   data[0],
		SessionID: sessionID,
		Seq:       byteOrder.Uint16(data[17:19]),
		Length:    byteOrder.Uint16(data[19:21]),
		Timestamp: byteOrder.Uint32(data[21:25]),
	}, nil
}

// Encode はHeaderをバイト列にエンコードする
func (h *Header) Encode() []byte {
	data := make([]byte, HeaderSize)
	data[0] = h.Version
	copy(data[1:17], h.SessionID[:])
	byteOrder.PutUint16(data[17:19], h.Seq)
	byteOrder.PutUint16(data[19:21], h.Length)
	byteOrder.PutUint32(data[21:25], h.Timestamp)
	return data
}

// ParsePayloadHeader はバイト列からPayloadHeaderをパースする
func ParsePayloadHeader(data []byte) (*PayloadHeader, error) {
	if len(data) < PayloadHeaderSize {
		return nil, ErrInvalidPayloadSize
	}

	return &PayloadHeader{
		DataType: DataType(data[0]),
		SubType:  data[1],
	}, nil
}

// Encode はPayloadHeaderをバイト列にエンコードする
func (p *PayloadHeader) Encode() []byte {
	data := make([]byte, PayloadHeaderSize)
	data[0] = byte(p.DataType)
	data[1] = p.SubType
	return data
}

// encodeMessage は Header + PayloadHeader + body を1つのメッセージにまとめる
func encodeMessage(sessionID SessionID, seq uint16, dataType DataType, subType uint8, body []byte) ([]byte, error) {
	length := PayloadHeaderSize + len(body)
	if length > 0xFFFF {
		return nil, ErrPayloadTooLarge
	}
	header := Header{
		Version:   ProtocolVersion,
		SessionID: sessionID.Bytes(),
		Seq:       seq,
		Length:    uint16(length),
		Timestamp: uint32(time.Now().UnixMilli() & 0xFFFFFFFF),
	}
	payloadHeader := PayloadHeader{DataType: dataType, SubType: subType}

	data := make([]byte, HeaderSize+length)
	copy(data[:HeaderSize], header.Encode())
	copy(data[HeaderSize:HeaderSize+PayloadHeaderSize], payloadHeader.Encode())
	copy(data[HeaderSize+PayloadHeaderSize:], body)
	return data, nil
}

// EncodeControlMessage はpayloadを持たないcontrolメッセージをエンコードする
func EncodeControlMessage(sessionID SessionID, seq uint16, subType ControlSubType) []byte {
	data, _ := encodeMessage(sessionID, seq, DataTypeControl, uint8(subType), nil)
	return data
}

// EncodeJoinMessage はルーム参加メッセージをエンコードする
// roomID がゼロ値ならサーバー側で自動割り当て
func EncodeJoinMessage(sessionID SessionID, seq uint16, roomID [16]byte) []byte {
	data, _ := encodeMessage(sessionID, seq, DataTypeControl, uint8(ControlSubTypeJoin), roomID[:])
	return data
}

// キー入力ビットマスク
const (
	KeyUp    uint32 = 0x01
	KeyLeft  uint32 = 0x02
	KeyDown  uint32 = 0x04
	KeyRight uint32 = 0x08
	KeyBomb  uint32 = 0x10
)

// InputPayload はユーザー入力 (4バイト)
//
//	keyMask uint32 (4) - キー入力ビットマスク
type InputPayload struct {
	KeyMask uint32
}

// ParseInputPayload はバイト列からInputPayloadをパースする
func ParseInputPayload(data []byte) (*InputPayload, error) {
	if len(data) < InputPayloadSize {
		return nil, ErrInvalidInputPayloadSize
	}
	return &InputPayload{KeyMask: byteOrder.Uint32(data[0:4])}, nil
}

// Encode はInputPayloadをバイト列にエンコードする
func (i *InputPayload) Encode() []byte {
	data := make([]byte, InputPayloadSize)
	byteOrder.PutUint32(data[0:4], i.KeyMask)
	return data
}

// EncodeInputMessage は入力メッセージをエンコードする
func EncodeInputMessage(sessionID SessionID, seq uint16, keyMask uint32) []byte {
	input := InputPayload{KeyMask: keyMask}
	data, _ := encodeMessage(sessionID, seq, DataTypeInput, 0, input.Encode())
	return data
}

// KeyMaskFor は Decision を送信用のキーマスクに変換する
func KeyMaskFor(d Decision) uint32 {
	switch d.Action {
	case ActionBomb:
		return KeyBomb
	case ActionMove:
		switch d.Direction {
		case DirectionUp:
			return KeyUp
		case DirectionDown:
			return KeyDown
		case DirectionLeft:
			return KeyLeft
		case DirectionRight:
			return KeyRight
		}
	}
	return 0
}

// WirePoint はセルに揃ったエンティティの座標
type WirePoint struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

type WireItem struct {
	Type uint8   `msgpack:"t"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
}

type WireBomb struct {
	Owner  string  `msgpack:"o"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	FuseMs int64   `msgpack:"f"`
	Range  int     `msgpack:"r"`
}

type WireBot struct {
	ID       string  `msgpack:"id"`
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	Speed    float64 `msgpack:"s"`
	Capacity int     `msgpack:"c"`
	Range    int     `msgpack:"r"`
	Alive    bool    `msgpack:"a"`
	Score    int     `msgpack:"sc"`
}

// WorldMessage はワールド状態のペイロード (msgpack)
type WorldMessage struct {
	Width           float64     `msgpack:"w"`
	Height          float64     `msgpack:"h"`
	Walls           []WirePoint `msgpack:"walls"`
	Obstacles       []WirePoint `msgpack:"obstacles"`
	Items           []WireItem  `msgpack:"items"`
	Bombs           []WireBomb  `msgpack:"bombs"`
	Bots            []WireBot   `msgpack:"bots"`
	TimeRemainingMs int64       `msgpack:"remaining"`
	Round           int         `msgpack:"round"`
	Tick            uint64      `msgpack:"tick"`
}

// ParseWorldMessage はペイロードからWorldMessageをデコードする
func ParseWorldMessage(payload []byte) (*WorldMessage, error) {
	if len(payload) == 0 {
		return nil, ErrInvalidWorldPayload
	}
	var msg WorldMessage
	if err := msgpack.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorldPayload, err)
	}
	return &msg, nil
}

// EncodeWorldMessage はワールド状態をメッセージにエンコードする
func EncodeWorldMessage(sessionID SessionID, seq uint16, msg *WorldMessage) ([]byte, error) {
	body, err := msgpack.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode world: %w", err)
	}
	return encodeMessage(sessionID, seq, DataTypeWorld, 0, body)
}

// Snapshot は自分のIDでボットを自分と敵に振り分けてSnapshotを作る
// 自分が含まれていなければ false
func (w *WorldMessage) Snapshot(selfID string, receivedAt time.Time) (*Snapshot, bool) {
	snap := &Snapshot{
		Map: GameMap{
			Width:     w.Width,
			Height:    w.Height,
			Walls:     make([]Position, 0, len(w.Walls)),
			Obstacles: make([]Position, 0, len(w.Obstacles)),
			Items:     make([]Item, 0, len(w.Items)),
			Bombs:     make([]Bomb, 0, len(w.Bombs)),
			Bots:      make([]Bot, 0, len(w.Bots)),
		},
		TimeRemaining: time.Duration(w.TimeRemainingMs) * time.Millisecond,
		Round:         w.Round,
		Tick:          w.Tick,
		ReceivedAt:    receivedAt,
	}
	for _, p := range w.Walls {
		snap.Map.Walls = append(snap.Map.Walls, Position{X: p.X, Y: p.Y})
	}
	for _, p := range w.Obstacles {
		snap.Map.Obstacles = append(snap.Map.Obstacles, Position{X: p.X, Y: p.Y})
	}
	for _, it := range w.Items {
		t := ItemType(it.Type)
		if t > ItemSpeedUp {
			t = ItemUnknown
		}
		snap.Map.Items = append(snap.Map.Items, Item{Type: t, Position: Position{X: it.X, Y: it.Y}})
	}
	for _, b := range w.Bombs {
		snap.Map.Bombs = append(snap.Map.Bombs, Bomb{
			OwnerID:  b.Owner,
			Position: Position{X: b.X, Y: b.Y},
			Fuse:     time.Duration(b.FuseMs) * time.Millisecond,
			Range:    b.Range,
		})
	}

	found := false
	for _, wb := range w.Bots {
		bot := Bot{
			ID:       wb.ID,
			Position: Position{X: wb.X, Y: wb.Y},
			Speed:    wb.Speed,
			Capacity: wb.Capacity,
			Range:    wb.Range,
			Alive:    wb.Alive,
			Score:    wb.Score,
		}
		snap.Map.Bots = append(snap.Map.Bots, bot)
		if bot.ID == selfID {
			snap.Self = bot
			found = true
			continue
		}
		snap.Enemies = append(snap.Enemies, bot)
	}
	return snap, found
}
