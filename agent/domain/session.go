package domain

import "github.com/google/uuid"

// SessionID はサーバーから割り当てられる接続ごとの識別子です。
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (s SessionID) String() string {
	return string(s)
}

func (s SessionID) IsEmpty() bool {
	return s == ""
}

// Bytes はヘッダー用の16バイト表現を返します。UUIDとして解釈できなければゼロ値。
func (s SessionID) Bytes() [16]byte {
	id, err := uuid.Parse(string(s))
	if err != nil {
		return [16]byte{}
	}
	return id
}

func SessionIDFromBytes(b [16]byte) SessionID {
	if b == ([16]byte{}) {
		return ""
	}
	return SessionID(uuid.UUID(b).String())
}
