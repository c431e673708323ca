package utils

import (
	"math"
	"testing"
	"time"

	"bomberbot/agent/domain"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("BOMBERBOT_TEST_ADDR", "")
	if got := GetEnvDefault("BOMBERBOT_TEST_ADDR", "localhost"); got != "localhost" {
		t.Errorf("GetEnvDefault = %q, want localhost", got)
	}
	t.Setenv("BOMBERBOT_TEST_ADDR", "example.com")
	if got := GetEnvDefault("BOMBERBOT_TEST_ADDR", "localhost"); got != "example.com" {
		t.Errorf("GetEnvDefault = %q, want example.com", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("BOMBERBOT_TEST_BACKOFF", "750ms")
	if got := GetEnvDuration("BOMBERBOT_TEST_BACKOFF", time.Second); got != 750*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, want 750ms", got)
	}
	t.Setenv("BOMBERBOT_TEST_BACKOFF", "soon")
	if got := GetEnvDuration("BOMBERBOT_TEST_BACKOFF", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration = %v, want fallback", got)
	}
}

func TestFinitePosition(t *testing.T) {
	if !FinitePosition(domain.Position{X: 1, Y: 2}) {
		t.Error("finite position reported as non-finite")
	}
	if FinitePosition(domain.Position{X: math.NaN(), Y: 0}) {
		t.Error("NaN position reported as finite")
	}
	if FinitePosition(domain.Position{X: 0, Y: math.Inf(1)}) {
		t.Error("Inf position reported as finite")
	}
}
