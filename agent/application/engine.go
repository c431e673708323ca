package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bomberbot/agent/domain"
)

var (
	ErrInitializationFailed = errors.New("initialization failed")
	ErrDuplicateStrategy    = errors.New("duplicate strategy")
	ErrStrategyNotFound     = errors.New("strategy not found")
	ErrInvalidPriority      = errors.New("invalid priority")
)

const tracerName = "bomberbot/agent/application"

// Registration は戦略とその基礎優先度の組です。
type Registration struct {
	Strategy Strategy
	Priority float64
}

// StrategyInfo は登録済み戦略の一覧表示用です。
type StrategyInfo struct {
	Name     string  `json:"name"`
	Priority float64 `json:"priority"`
}

// Outcome は1tickの判断結果です。Proposals は優先度の降順です。
type Outcome struct {
	Decision  domain.Decision
	Threat    Threat
	Proposals []domain.Decision
}

// Engine は登録済みの全戦略を毎tick評価し、最も優先度の高い提案を選びます。
// 登録一覧は常に基礎優先度の降順 (同値は登録順) に保たれます。
type Engine struct {
	rules  domain.Rules
	tuning Tuning
	tracer trace.Tracer

	mu      sync.RWMutex
	entries []Registration
}

func NewEngine(rules domain.Rules, tuning Tuning, regs ...Registration) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitializationFailed, err)
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitializationFailed, err)
	}
	e := &Engine{
		rules:  rules,
		tuning: tuning,
		tracer: otel.Tracer(tracerName),
	}
	for _, r := range regs {
		if err := e.Register(r.Strategy, r.Priority); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitializationFailed, err)
		}
	}
	return e, nil
}

// Register は戦略を追加します。次のtickから評価されます。
func (e *Engine) Register(s Strategy, priority float64) error {
	if s == nil {
		return fmt.Errorf("%w: nil strategy", ErrInitializationFailed)
	}
	if !validPriority(priority) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidPriority, s.Name(), priority)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(s.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateStrategy, s.Name())
	}
	e.entries = append(e.entries, Registration{Strategy: s, Priority: priority})
	e.sortLocked()
	return nil
}

func (e *Engine) Remove(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrStrategyNotFound, name)
	}
	e.entries = slices.Delete(e.entries, i, i+1)
	return nil
}

// SetPriority は戦略の基礎優先度を変更し、一覧を並べ直します。
func (e *Engine) SetPriority(name string, priority float64) error {
	if !validPriority(priority) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidPriority, name, priority)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrStrategyNotFound, name)
	}
	e.entries[i].Priority = priority
	e.sortLocked()
	return nil
}

// Strategies は評価順の戦略一覧を返します。
func (e *Engine) Strategies() []StrategyInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	infos := make([]StrategyInfo, 0, len(e.entries))
	for _, r := range e.entries {
		infos = append(infos, StrategyInfo{Name: r.Strategy.Name(), Priority: r.Priority})
	}
	return infos
}

func (e *Engine) indexOf(name string) int {
	return slices.IndexFunc(e.entries, func(r Registration) bool {
		return r.Strategy.Name() == name
	})
}

func (e *Engine) sortLocked() {
	sort.SliceStable(e.entries, func(i, j int) bool {
		return e.entries[i].Priority > e.entries[j].Priority
	})
}

func validPriority(p float64) bool {
	return !math.IsNaN(p) && p >= MinPriority && p <= MaxPriority
}

// Decide は Tick の Decision だけを返します。
func (e *Engine) Decide(ctx context.Context, snap *domain.Snapshot) domain.Decision {
	return e.Tick(ctx, snap).Decision
}

// Tick は1tick分の判断を行います。エラーは返さず、提案がなければ停止を返します。
func (e *Engine) Tick(ctx context.Context, snap *domain.Snapshot) Outcome {
	if snap == nil {
		return Outcome{Decision: domain.DefaultDecision()}
	}
	if err := domain.ValidateMapSize(e.rules, snap.Map.Width, snap.Map.Height); err != nil {
		slog.WarnContext(ctx, "snapshot rejected", "tick", snap.Tick, "err", err)
		return Outcome{Decision: domain.DefaultDecision()}
	}
	ctx, span := e.tracer.Start(ctx, "engine.tick", trace.WithAttributes(
		attribute.Int64("game.tick", int64(snap.Tick)),
		attribute.Int("game.round", snap.Round),
	))
	defer span.End()

	e.mu.RLock()
	entries := slices.Clone(e.entries)
	e.mu.RUnlock()

	s, ok := e.situation(ctx, snap)
	if !ok {
		return Outcome{Decision: domain.DefaultDecision()}
	}

	proposals := make([]domain.Decision, 0, len(entries))
	for _, r := range entries {
		d, ok := e.evaluate(ctx, r, s)
		if !ok {
			continue
		}
		if math.IsNaN(d.Priority) {
			slog.WarnContext(ctx, "strategy returned NaN priority", "strategy", r.Strategy.Name())
			continue
		}
		d.Source = r.Strategy.Name()
		proposals = append(proposals, d)
	}
	// 同じ優先度なら登録順 (基礎優先度の降順) が勝つ
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Priority > proposals[j].Priority
	})

	decision := domain.DefaultDecision()
	if len(proposals) > 0 {
		decision = proposals[0]
	}

	for _, r := range entries {
		if o, ok := r.Strategy.(DecisionObserver); ok {
			e.observe(ctx, r.Strategy.Name(), o, s, decision)
		}
	}

	threat := s.Threat()
	span.SetAttributes(
		attribute.String("decision.action", decision.Action.String()),
		attribute.String("decision.direction", decision.Direction.String()),
		attribute.String("decision.source", decision.Source),
		attribute.Float64("decision.priority", decision.Priority),
		attribute.Int("decision.proposals", len(proposals)),
		attribute.String("threat", threat.String()),
	)
	if fuse, ok := s.Hazard.MinFuse(); ok {
		span.SetAttributes(attribute.Int64("hazard.min_fuse_ms", fuse.Milliseconds()))
	}
	return Outcome{Decision: decision, Threat: threat, Proposals: proposals}
}

// situation は盤面の構築中のパニックを回復し、false を返します。
func (e *Engine) situation(ctx context.Context, snap *domain.Snapshot) (s *Situation, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "situation build panicked", "tick", snap.Tick, "panic", rec)
			trace.SpanFromContext(ctx).SetStatus(codes.Error, "situation build panicked")
			s, ok = nil, false
		}
	}()
	return NewSituation(e.rules, e.tuning, snap), true
}

// evaluate は戦略のパニックを回復し、提案なしとして扱います。
func (e *Engine) evaluate(ctx context.Context, r Registration, s *Situation) (d domain.Decision, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "strategy panicked", "strategy", r.Strategy.Name(), "panic", rec)
			trace.SpanFromContext(ctx).SetStatus(codes.Error, fmt.Sprintf("strategy %s panicked", r.Strategy.Name()))
			d, ok = domain.Decision{}, false
		}
	}()
	return r.Strategy.Evaluate(s, r.Priority)
}

func (e *Engine) observe(ctx context.Context, name string, o DecisionObserver, s *Situation, d domain.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "observer panicked", "strategy", name, "panic", rec)
		}
	}()
	o.Observe(s, d)
}
