package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bomberbot/agent/application"
	"bomberbot/agent/domain"
	"bomberbot/agent/handler"
	"bomberbot/agent/runner"
)

type staticStatus struct {
	status runner.Status
	ok     bool
}

func (s staticStatus) LastOutcome() (runner.Status, bool) {
	return s.status, s.ok
}

func newEngine(t *testing.T) *application.Engine {
	t.Helper()
	tuning := application.DefaultTuning()
	e, err := application.NewEngine(domain.DefaultRules(), tuning, application.DefaultRegistrations(tuning, nil)...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoute_Healthz(t *testing.T) {
	h := handler.Route(staticStatus{}, newEngine(t))
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRoute_Status(t *testing.T) {
	engine := newEngine(t)

	t.Run("not ready", func(t *testing.T) {
		rec := do(t, handler.Route(staticStatus{}, engine), http.MethodGet, "/status", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got["ready"] != false {
			t.Errorf("ready = %v, want false", got["ready"])
		}
	})

	t.Run("last outcome", func(t *testing.T) {
		src := staticStatus{ok: true, status: runner.Status{
			SessionID: "00000000-0000-0000-0000-000000000001",
			Tick:      9,
			DecidedAt: time.Unix(10, 0).UTC(),
			Outcome: application.Outcome{
				Decision: domain.Decision{Action: domain.ActionMove, Direction: domain.DirectionUp, Priority: 97, Rationale: "flee", Source: application.NameEscape},
				Threat:   application.ThreatImmediate,
				Proposals: []domain.Decision{
					{Action: domain.ActionMove, Direction: domain.DirectionUp, Priority: 97, Source: application.NameEscape},
					{Action: domain.ActionStop, Priority: 12, Source: application.NameExplore},
				},
			},
		}}
		rec := do(t, handler.Route(src, engine), http.MethodGet, "/status", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var got struct {
			Ready    bool   `json:"ready"`
			Tick     uint64 `json:"tick"`
			Threat   string `json:"threat"`
			Decision struct {
				Action    string `json:"action"`
				Direction string `json:"direction"`
				Source    string `json:"source"`
			} `json:"decision"`
			Proposals []struct {
				Action    string `json:"action"`
				Direction string `json:"direction"`
			} `json:"proposals"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !got.Ready || got.Tick != 9 || got.Threat != application.ThreatImmediate.String() {
			t.Errorf("status = %+v", got)
		}
		if got.Decision.Action != "MOVE" || got.Decision.Direction != "UP" || got.Decision.Source != application.NameEscape {
			t.Errorf("decision = %+v, want MOVE UP from escape", got.Decision)
		}
		if len(got.Proposals) != 2 || got.Proposals[1].Direction != "" {
			t.Errorf("proposals = %+v", got.Proposals)
		}
	})
}

func TestRoute_Strategies(t *testing.T) {
	engine := newEngine(t)
	h := handler.Route(staticStatus{}, engine)

	rec := do(t, h, http.MethodGet, "/strategies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list []application.StrategyInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(list) != 8 || list[0].Name != application.NameEscape {
		t.Errorf("strategies = %+v", list)
	}
}

func TestRoute_SetPriority(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		body     string
		want     int
	}{
		{"ok", application.NameExplore, `{"priority": 99}`, http.StatusOK},
		{"unknown strategy", "teleport", `{"priority": 50}`, http.StatusNotFound},
		{"out of range", application.NameExplore, `{"priority": 150}`, http.StatusBadRequest},
		{"missing field", application.NameExplore, `{}`, http.StatusBadRequest},
		{"malformed", application.NameExplore, `{"priority":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(t)
			h := handler.Route(staticStatus{}, engine)
			rec := do(t, h, http.MethodPut, "/strategies/"+tt.strategy+"/priority", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	engine := newEngine(t)
	do(t, handler.Route(staticStatus{}, engine), http.MethodPut, "/strategies/"+application.NameExplore+"/priority", `{"priority": 99}`)
	if first := engine.Strategies()[0]; first.Name != application.NameExplore || first.Priority != 99 {
		t.Errorf("first strategy = %+v, want explore@99", first)
	}
}

func TestRoute_MethodNotAllowed(t *testing.T) {
	h := handler.Route(staticStatus{}, newEngine(t))
	if rec := do(t, h, http.MethodPost, "/strategies", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
