package adapterwebsocket_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"

	adapterwebsocket "bomberbot/agent/adapter/websocket"
	"bomberbot/agent/domain"
)

// echoServer は受け取ったバイナリメッセージをそのまま返します。
func echoServer(t *testing.T, gotAuth chan<- string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotAuth != nil {
			gotAuth <- r.Header.Get("Authorization")
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		for {
			typ, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			if err := conn.Write(r.Context(), typ, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestTransport_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := echoServer(t, nil)
	tr, err := adapterwebsocket.Dial(ctx, wsURL(srv), adapterwebsocket.DialOptions{BotName: "bot"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close(int32(websocket.StatusNormalClosure), "done")

	msg := domain.EncodeInputMessage(domain.NewSessionID(), 7, domain.KeyBomb)
	if err := tr.Write(ctx, msg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := tr.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("Read = %x, want %x", got, msg)
	}
}

func TestDial_SendsBearerToken(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gotAuth := make(chan string, 1)
	srv := echoServer(t, gotAuth)
	tr, err := adapterwebsocket.Dial(ctx, wsURL(srv), adapterwebsocket.DialOptions{BotName: "bot-1", Secret: "s3cret"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.Close(int32(websocket.StatusNormalClosure), "done")

	auth := <-gotAuth
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		t.Fatalf("Authorization = %q, want Bearer token", auth)
	}
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	if claims.Subject != "bot-1" {
		t.Errorf("Subject = %q, want bot-1", claims.Subject)
	}
}

func TestBearerToken_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	raw, err := adapterwebsocket.BearerToken("k", "bot", issued, time.Minute)
	if err != nil {
		t.Fatalf("BearerToken: %v", err)
	}
	_, err = jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte("k"), nil })
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	if _, err := adapterwebsocket.Dial(ctx, wsURL(srv), adapterwebsocket.DialOptions{}); !errors.Is(err, adapterwebsocket.ErrDialFailed) {
		t.Errorf("err = %v, want ErrDialFailed", err)
	}
}
