package orch

import (
	"context"
	"sync"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

type op struct {
	fn   func()
	done chan struct{}
}

// Orchestrator is the session broadcast engine. Registry and Rooms are
// touched only from the Run goroutine, so every operation is atomic with
// respect to the others and no locks are taken on room state.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomDirectory
	Policy   app.Policy
	Executor core.Executor

	ops      chan op
	stopped  chan struct{}
	runCtx   context.Context
	pending  map[string]pendingExec
	inflight sync.WaitGroup
}

func New(reg *app.Registry, rooms core.RoomDirectory, policy app.Policy, exec core.Executor) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Executor: exec,
		ops:      make(chan op),
		stopped:  make(chan struct{}),
		runCtx:   context.Background(),
		pending:  make(map[string]pendingExec),
	}
}

// Run processes operations until ctx is done. It must be started exactly once.
func (o *Orchestrator) Run(ctx context.Context) {
	o.runCtx = ctx
	defer close(o.stopped)
	log.Info().Str("module", "orch").Msg("engine started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("engine stopped")
			return
		case op := <-o.ops:
			o.exec(op)
		}
	}
}

// Wait blocks until no execution request is in flight.
func (o *Orchestrator) Wait() { o.inflight.Wait() }

func (o *Orchestrator) exec(op op) {
	defer close(op.done)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "orch").Interface("panic", r).Msg("event handler panicked")
		}
	}()
	op.fn()
}

// do runs fn on the engine goroutine and waits for it. It reports false
// when the engine has already stopped.
func (o *Orchestrator) do(fn func()) bool {
	op := op{fn: fn, done: make(chan struct{})}
	select {
	case o.ops <- op:
	case <-o.stopped:
		return false
	}
	<-op.done
	return true
}

// post queues fn without waiting for it.
func (o *Orchestrator) post(fn func()) {
	select {
	case o.ops <- op{fn: fn, done: make(chan struct{})}:
	case <-o.stopped:
	}
}

func (o *Orchestrator) OnConnect(conn domain.ConnID, sc core.SignalConnection) {
	o.do(func() { o.Registry.Add(conn, sc) })
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	var out []core.RoomInfo
	o.do(func() { out = o.Rooms.List() })
	return out
}

func (o *Orchestrator) Snapshot(room domain.RoomID) []string {
	out := []string{}
	o.do(func() { out = o.Rooms.Snapshot(room) })
	return out
}

func (o *Orchestrator) RoomState(room domain.RoomID) domain.RoomState {
	state := domain.RoomAbsent
	o.do(func() { state = o.Rooms.State(room) })
	return state
}

// WhoAmI reports the room and display name bound to conn, if any.
func (o *Orchestrator) WhoAmI(conn domain.ConnID) (domain.RoomID, string, bool) {
	var (
		room domain.RoomID
		name string
		ok   bool
	)
	o.do(func() { room, name, ok = o.Registry.RoomOf(conn) })
	return room, name, ok
}
