package adapterwebsocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"

	"bomberbot/agent/domain"
)

var ErrDialFailed = errors.New("dial failed")

const defaultTokenTTL = time.Hour

// DialOptions はゲームサーバーへの接続設定です。
// Secret が空ならトークンを付けずに接続します。
type DialOptions struct {
	BotName  string
	Secret   string
	TokenTTL time.Duration
}

func Dial(ctx context.Context, url string, opts DialOptions) (domain.Transport, error) {
	header := http.Header{}
	if opts.Secret != "" {
		ttl := opts.TokenTTL
		if ttl <= 0 {
			ttl = defaultTokenTTL
		}
		token, err := BearerToken(opts.Secret, opts.BotName, time.Now(), ttl)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
		}
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDialFailed, url, err)
	}
	return NewTransportFrom(conn), nil
}

// BearerToken はボット名を subject とする HS256 トークンを発行します。
func BearerToken(secret, subject string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
