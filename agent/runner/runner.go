package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"bomberbot/agent/application"
	"bomberbot/agent/config"
	"bomberbot/agent/domain"
	"bomberbot/utils"
)

var (
	ErrReadFailed  = errors.New("read failed")
	ErrWriteFailed = errors.New("write failed")
	ErrKicked      = errors.New("kicked by server")
	ErrServerIdle  = errors.New("server idle")
)

// Decider は1tick分の判断を返します。*application.Engine が満たします。
type Decider interface {
	Tick(ctx context.Context, snap *domain.Snapshot) application.Outcome
}

// Status は直近の判断結果です。
type Status struct {
	SessionID domain.SessionID
	Tick      uint64
	Outcome   application.Outcome
	DecidedAt time.Time
}

// Runner はサーバーとの1セッションを受信ループと判断ループで回します。
// 同じ Runner を再接続のたびに Run し直せます。
type Runner struct {
	decider Decider
	rules   domain.Rules
	cadence config.Cadence
	logger  *slog.Logger
	now     func() time.Time

	writeMu sync.Mutex
	seq     uint16

	mu        sync.RWMutex
	sessionID domain.SessionID
	latest    *domain.Snapshot
	lastRecv  time.Time
	status    Status
	hasStatus bool
	lastDir   domain.Direction
	bombTick  uint64
	bombSent  bool
}

func New(decider Decider, rules domain.Rules, cadence config.Cadence, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		decider: decider,
		rules:   rules,
		cadence: cadence,
		logger:  logger,
		now:     time.Now,
	}
}

// Run は ctx が終わるか接続が切れるまでブロックします。ctx の終了は nil を返します。
func (r *Runner) Run(ctx context.Context, t domain.Transport) error {
	r.reset()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.readLoop(gctx, t) })
	g.Go(func() error { return r.decideLoop(gctx, t) })
	g.Go(func() error { return r.watchLoop(gctx) })
	err := g.Wait()

	if ctx.Err() != nil {
		_ = t.Close(int32(websocket.StatusNormalClosure), "shutdown")
		return nil
	}
	_ = t.Close(int32(websocket.StatusInternalError), "session ended")
	return err
}

func (r *Runner) reset() {
	r.writeMu.Lock()
	r.seq = 0
	r.writeMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = ""
	r.latest = nil
	r.lastRecv = r.now()
	r.lastDir = domain.DirectionNone
	r.bombSent = false
}

// LastOutcome は直近の判断を返します。まだ判断していなければ false。
func (r *Runner) LastOutcome() (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status, r.hasStatus
}

func (r *Runner) readLoop(ctx context.Context, t domain.Transport) error {
	for {
		data, err := t.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %w", ErrReadFailed, err)
		}
		r.mu.Lock()
		r.lastRecv = r.now()
		r.mu.Unlock()
		if err := r.handle(ctx, t, data); err != nil {
			return err
		}
	}
}

// watchLoop は cadence.Idle の間サーバーから何も届かなければセッションを終わらせます。
func (r *Runner) watchLoop(ctx context.Context) error {
	if r.cadence.Idle <= 0 {
		return nil
	}
	ticker := time.NewTicker(r.cadence.Idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.mu.RLock()
			silent := r.now().Sub(r.lastRecv)
			r.mu.RUnlock()
			if silent > r.cadence.Idle {
				r.logger.WarnContext(ctx, "no message from server", "silent", silent)
				return ErrServerIdle
			}
		}
	}
}

func (r *Runner) handle(ctx context.Context, t domain.Transport, data []byte) error {
	if len(data) < domain.HeaderSize+domain.PayloadHeaderSize {
		r.logger.DebugContext(ctx, "short message dropped", "size", len(data))
		return nil
	}
	header, err := domain.ParseHeader(data)
	if err != nil {
		return nil
	}
	payloadHeader, err := domain.ParsePayloadHeader(data[domain.HeaderSize:])
	if err != nil {
		return nil
	}
	body := data[domain.HeaderSize+domain.PayloadHeaderSize:]

	switch payloadHeader.DataType {
	case domain.DataTypeControl:
		return r.handleControl(ctx, t, header, domain.ControlSubType(payloadHeader.SubType))
	case domain.DataTypeWorld:
		r.handleWorld(ctx, body)
	}
	return nil
}

func (r *Runner) handleControl(ctx context.Context, t domain.Transport, header *domain.Header, sub domain.ControlSubType) error {
	switch sub {
	case domain.ControlSubTypeAssign:
		sid := domain.SessionIDFromBytes(header.SessionID)
		r.mu.Lock()
		r.sessionID = sid
		r.mu.Unlock()
		r.logger.InfoContext(ctx, "session assigned", "sessionID", sid)

		if err := r.send(ctx, t, func(seq uint16) []byte {
			return domain.EncodeJoinMessage(sid, seq, [16]byte{})
		}); err != nil {
			return err
		}
		r.logger.InfoContext(ctx, "joined room")

	case domain.ControlSubTypePing:
		sid := r.session()
		return r.send(ctx, t, func(seq uint16) []byte {
			return domain.EncodeControlMessage(sid, seq, domain.ControlSubTypePong)
		})

	case domain.ControlSubTypeKick:
		r.logger.WarnContext(ctx, "kicked by server")
		return ErrKicked

	case domain.ControlSubTypeError:
		r.logger.WarnContext(ctx, "server reported an error")
	}
	return nil
}

func (r *Runner) handleWorld(ctx context.Context, body []byte) {
	sid := r.session()
	if sid.IsEmpty() {
		return
	}
	msg, err := domain.ParseWorldMessage(body)
	if err != nil {
		r.logger.WarnContext(ctx, "world message dropped", "err", err)
		return
	}
	snap, found := msg.Snapshot(sid.String(), r.now())
	if !found {
		return
	}
	if !utils.FinitePosition(snap.Self.Position) {
		r.logger.WarnContext(ctx, "self position is not finite", "tick", snap.Tick)
		return
	}

	r.mu.Lock()
	r.latest = snap
	r.mu.Unlock()
}

func (r *Runner) session() domain.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionID
}

func (r *Runner) send(ctx context.Context, t domain.Transport, encode func(seq uint16) []byte) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	msg := encode(r.seq)
	r.seq++
	if err := t.Write(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (r *Runner) decideLoop(ctx context.Context, t domain.Transport) error {
	timer := time.NewTimer(r.cadence.Normal)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		next, err := r.step(ctx, t)
		if err != nil {
			return err
		}
		timer.Reset(next)
	}
}

// step は最新のスナップショットで1回判断して入力を送り、次の判断までの間隔を返します。
func (r *Runner) step(ctx context.Context, t domain.Transport) (time.Duration, error) {
	r.mu.RLock()
	snap, sid := r.latest, r.sessionID
	r.mu.RUnlock()
	if snap == nil || sid.IsEmpty() || !snap.Self.Alive {
		return r.cadence.Normal, nil
	}

	snap = r.predict(snap)
	out := r.decider.Tick(ctx, snap)
	mask := r.keyMask(out.Decision, snap.Tick)

	r.mu.Lock()
	r.status = Status{SessionID: sid, Tick: snap.Tick, Outcome: out, DecidedAt: r.now()}
	r.hasStatus = true
	r.mu.Unlock()

	if err := r.send(ctx, t, func(seq uint16) []byte {
		return domain.EncodeInputMessage(sid, seq, mask)
	}); err != nil {
		return 0, err
	}
	return r.interval(out.Threat), nil
}

func (r *Runner) interval(threat application.Threat) time.Duration {
	if threat == application.ThreatNone {
		return r.cadence.Normal
	}
	return r.cadence.Danger
}

// keyMask は判断をキー入力に変換します。
// 移動キーは毎回送り直し、爆弾キーは同じスナップショットに対して1度だけ送ります。
func (r *Runner) keyMask(d domain.Decision, tick uint64) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastDir = domain.DirectionNone
	switch d.Action {
	case domain.ActionBomb:
		if r.bombSent && r.bombTick == tick {
			return 0
		}
		r.bombSent, r.bombTick = true, tick
		return domain.KeyBomb
	case domain.ActionMove:
		r.lastDir = d.Direction
	}
	return domain.KeyMaskFor(d)
}

// predict はスナップショットが古いとき、最後に送った移動方向で自分の位置を進めたコピーを返します。
func (r *Runner) predict(snap *domain.Snapshot) *domain.Snapshot {
	age := r.now().Sub(snap.ReceivedAt)
	if r.cadence.Stale <= 0 || age <= r.cadence.Stale {
		return snap
	}
	r.mu.RLock()
	dir := r.lastDir
	r.mu.RUnlock()

	speed := snap.Self.Speed
	if speed <= 0 {
		speed = r.rules.AgentSpeed
	}
	pos, confidence := PredictPosition(snap.Self.Position, age, speed, dir)
	if confidence < minConfidence || pos == snap.Self.Position {
		return snap
	}
	predicted := *snap
	predicted.Self.Position = pos
	return &predicted
}
