package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bomberbot/agent/application"
)

// StrategyRegistry は実行中に戦略の基礎優先度を読み書きします。*application.Engine が満たします。
type StrategyRegistry interface {
	Strategies() []application.StrategyInfo
	SetPriority(name string, priority float64) error
}

var errMissingPriority = errors.New("priority is required")

type StrategiesHandler struct {
	registry StrategyRegistry
}

func NewStrategiesHandler(registry StrategyRegistry) *StrategiesHandler {
	return &StrategiesHandler{registry: registry}
}

func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.registry.Strategies())
}

type priorityRequest struct {
	Priority *float64 `json:"priority"`
}

// SetPriority は PUT /strategies/{name}/priority を処理し、並べ直した一覧を返します。
func (h *StrategiesHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req priorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Priority == nil {
		writeError(w, r, http.StatusBadRequest, errMissingPriority)
		return
	}

	err := h.registry.SetPriority(name, *req.Priority)
	switch {
	case errors.Is(err, application.ErrStrategyNotFound):
		writeError(w, r, http.StatusNotFound, err)
		return
	case errors.Is(err, application.ErrInvalidPriority):
		writeError(w, r, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	slog.InfoContext(r.Context(), "strategy priority updated", "strategy", name, "priority", *req.Priority)
	writeJSON(w, r, http.StatusOK, h.registry.Strategies())
}
