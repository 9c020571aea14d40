package app

import (
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Conn     core.SignalConnection
	RoomID   domain.RoomID
	Identity string
}

// Registry tracks live connections and the room each one is in.
// It is not safe for concurrent use; the orchestrator loop owns it.
type Registry struct {
	sessions map[domain.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnID]*sessionEntry),
	}
}

func (r *Registry) Add(id domain.ConnID, conn core.SignalConnection) {
	r.sessions[id] = &sessionEntry{Conn: conn}
	connectionsActive.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection added")
}

func (r *Registry) Remove(id domain.ConnID) bool {
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	connectionsActive.Set(float64(len(r.sessions)))
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection removed")
	return true
}

func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	if e, ok := r.sessions[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Bind(id domain.ConnID, room domain.RoomID, name string) bool {
	e, ok := r.sessions[id]
	if !ok {
		return false
	}
	e.RoomID = room
	e.Identity = name
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(room)).Str("name", name).Msg("bound room")
	return true
}

func (r *Registry) Unbind(id domain.ConnID) {
	if e, ok := r.sessions[id]; ok {
		e.RoomID = ""
		e.Identity = ""
	}
}

func (r *Registry) RoomOf(id domain.ConnID) (domain.RoomID, string, bool) {
	e, ok := r.sessions[id]
	if !ok || e.RoomID == "" {
		return "", "", false
	}
	return e.RoomID, e.Identity, true
}

// RoomsOf lists every room the connection is associated with.
func (r *Registry) RoomsOf(id domain.ConnID) []domain.RoomID {
	if room, _, ok := r.RoomOf(id); ok {
		return []domain.RoomID{room}
	}
	return nil
}

func (r *Registry) Count() int { return len(r.sessions) }
