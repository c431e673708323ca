package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"bomberbot/agent/handler"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	s := handler.NewServer("127.0.0.1:0", handler.Route(staticStatus{}, newEngine(t)))
	if s.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr = %q, want 127.0.0.1:0", s.Addr())
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Serve()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Serve = %v, want ErrServerClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
