package orch

import (
	"context"
	"encoding/json"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// pendingExec remembers which lifetime of a room issued a request.
type pendingExec struct {
	room domain.RoomID
	gen  uint64
}

// Execute forwards the buffer to the execution service. Each call gets its
// own request token and upstream call; calls from one room run concurrently
// and are never retried or cancelled. The result is broadcast to the room
// the token was issued for, or dropped if that room has been torn down since,
// even when a new room has been created under the same id.
func (o *Orchestrator) Execute(conn domain.ConnID, room domain.RoomID, code, language, version string) {
	o.do(func() {
		room, _, ok := o.memberRoom(conn, room)
		if !ok {
			return
		}
		if version == "" {
			version = core.AnyVersion
		}
		token := uuid.NewString()
		o.pending[token] = pendingExec{room: room, gen: o.Rooms.Generation(room)}
		o.sendTo(conn, core.ExecutionAcceptedEvent{Type: core.EventExecutionAccepted, RoomID: room, RequestID: token})
		log.Info().Str("module", "orch.exec").Str("request", token).Str("room", string(room)).Str("language", language).Str("version", version).Msg("execution requested")

		req := core.ExecRequest{Language: language, Version: version, Code: code}
		o.inflight.Add(1)
		go o.runExecution(o.runCtx, token, req)
	})
}

func (o *Orchestrator) runExecution(ctx context.Context, token string, req core.ExecRequest) {
	defer o.inflight.Done()
	result := o.callExecutor(ctx, token, req)
	o.post(func() { o.deliverResult(token, result) })
}

// callExecutor never fails: every upstream fault, panics included, becomes
// the generic failure marker.
func (o *Orchestrator) callExecutor(ctx context.Context, token string, req core.ExecRequest) (out json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "orch.exec").Str("request", token).Interface("panic", r).Msg("executor panicked")
			app.Executions.WithLabelValues("failed").Inc()
			out = core.ExecutionFailed
		}
	}()
	if o.Executor == nil {
		log.Error().Str("module", "orch.exec").Str("request", token).Msg("no executor configured")
		app.Executions.WithLabelValues("failed").Inc()
		return core.ExecutionFailed
	}
	res, err := o.Executor.Execute(ctx, req)
	if err != nil || len(res) == 0 {
		log.Error().Err(err).Str("module", "orch.exec").Str("request", token).Msg("execution failed")
		app.Executions.WithLabelValues("failed").Inc()
		return core.ExecutionFailed
	}
	app.Executions.WithLabelValues("ok").Inc()
	return res
}

func (o *Orchestrator) deliverResult(token string, result json.RawMessage) {
	p, ok := o.pending[token]
	if !ok {
		return
	}
	delete(o.pending, token)
	room := p.room
	if o.Rooms.State(room) == domain.RoomAbsent || o.Rooms.Generation(room) != p.gen {
		log.Info().Str("module", "orch.exec").Str("request", token).Str("room", string(room)).Msg("room gone, result dropped")
		app.Executions.WithLabelValues("dropped").Inc()
		return
	}
	o.broadcastInclusive(room, core.ExecutionResultEvent{
		Type:      core.EventExecutionResult,
		RoomID:    room,
		RequestID: token,
		Result:    result,
	})
}

// PendingExecutions reports how many results have not been delivered yet.
func (o *Orchestrator) PendingExecutions() int {
	n := 0
	o.do(func() { n = len(o.pending) })
	return n
}
