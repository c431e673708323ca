package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"bomberbot/agent/domain"
	"bomberbot/agent/runner"
)

// StatusSource は直近の判断を提供します。*runner.Runner が満たします。
type StatusSource interface {
	LastOutcome() (runner.Status, bool)
}

type decisionView struct {
	Action    string           `json:"action"`
	Direction string           `json:"direction,omitempty"`
	Target    *domain.Position `json:"target,omitempty"`
	Priority  float64          `json:"priority"`
	Rationale string           `json:"rationale"`
	Source    string           `json:"source,omitempty"`
}

type statusView struct {
	Ready     bool           `json:"ready"`
	SessionID string         `json:"session_id,omitempty"`
	Tick      uint64         `json:"tick,omitempty"`
	DecidedAt *time.Time     `json:"decided_at,omitempty"`
	Threat    string         `json:"threat,omitempty"`
	Decision  *decisionView  `json:"decision,omitempty"`
	Proposals []decisionView `json:"proposals,omitempty"`
}

func toDecisionView(d domain.Decision) decisionView {
	v := decisionView{
		Action:    d.Action.String(),
		Target:    d.Target,
		Priority:  d.Priority,
		Rationale: d.Rationale,
		Source:    d.Source,
	}
	if d.Action == domain.ActionMove {
		v.Direction = d.Direction.String()
	}
	return v
}

type StatusHandler struct {
	source StatusSource
}

func NewStatusHandler(source StatusSource) *StatusHandler {
	return &StatusHandler{source: source}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, ok := h.source.LastOutcome()
	if !ok {
		writeJSON(w, r, http.StatusOK, statusView{Ready: false})
		return
	}
	decision := toDecisionView(st.Outcome.Decision)
	proposals := make([]decisionView, 0, len(st.Outcome.Proposals))
	for _, p := range st.Outcome.Proposals {
		proposals = append(proposals, toDecisionView(p))
	}
	writeJSON(w, r, http.StatusOK, statusView{
		Ready:     true,
		SessionID: st.SessionID.String(),
		Tick:      st.Tick,
		DecidedAt: &st.DecidedAt,
		Threat:    st.Outcome.Threat.String(),
		Decision:  &decision,
		Proposals: proposals,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.WarnContext(r.Context(), "failed to write response", "err", err)
	}
}

type errorView struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	writeJSON(w, r, code, errorView{Error: err.Error()})
}
