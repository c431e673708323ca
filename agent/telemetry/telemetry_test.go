package telemetry_test

import (
	"context"
	"log/slog"
	"testing"

	"bomberbot/agent/telemetry"
)

func TestSetup_WithoutEndpoint(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(telemetry.EndpointEnv, "")

	shutdown, err := telemetry.Setup(context.Background(), "bomberbot-test", slog.LevelWarn)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
	if slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info is enabled, want level warn")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn is disabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := telemetry.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
