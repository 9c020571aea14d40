package orch

import (
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join binds conn to room under name. A connection already in another room
// leaves it first, so it is never associated with more than one room.
func (o *Orchestrator) Join(conn domain.ConnID, room domain.RoomID, name string) {
	o.do(func() { o.join(conn, room, name) })
}

func (o *Orchestrator) join(conn domain.ConnID, room domain.RoomID, name string) {
	if _, ok := o.Registry.Conn(conn); !ok {
		return
	}
	if err := validateJoin(room, name); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("join rejected")
		o.sendTo(conn, core.NewError(core.ErrCodeInvalidJoin))
		return
	}
	if cur, _, ok := o.Registry.RoomOf(conn); ok && cur != room {
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("from_room", string(cur)).Msg("switching rooms")
		o.leave(conn, cur, false)
	}
	snap, err := o.Rooms.Join(room, conn, name)
	if err != nil {
		o.sendTo(conn, core.NewError(core.ErrCodeInvalidJoin))
		return
	}
	o.Registry.Bind(conn, room, name)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Str("name", name).Msg("joined")
	o.broadcastInclusive(room, core.NewPresence(room, snap))
}

func validateJoin(room domain.RoomID, name string) error {
	if err := domain.ValidateRoomID(room); err != nil {
		return err
	}
	return domain.ValidateIdentity(name)
}

// Leave removes conn from room. An empty room id means the connection's
// current room. Leaving a room the connection is not in is a no-op.
func (o *Orchestrator) Leave(conn domain.ConnID, room domain.RoomID) {
	o.do(func() {
		if room == "" {
			cur, _, ok := o.Registry.RoomOf(conn)
			if !ok {
				return
			}
			room = cur
		}
		o.leave(conn, room, true)
	})
}

// leave runs the directory leave and publishes the post-removal presence to
// the remaining members, and to the leaver when it is still connected.
func (o *Orchestrator) leave(conn domain.ConnID, room domain.RoomID, notifyLeaver bool) {
	res := o.Rooms.Leave(room, conn)
	if cur, _, ok := o.Registry.RoomOf(conn); ok && cur == room {
		o.Registry.Unbind(conn)
	}
	if !res.Removed {
		return
	}
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Bool("deleted", res.Deleted).Msg("left")
	presence := core.NewPresence(room, res.Participants)
	if !res.Deleted {
		o.broadcastInclusive(room, presence)
	}
	if notifyLeaver {
		o.sendTo(conn, presence)
	}
}

// OnDisconnect reconciles an involuntary connection loss. It runs whether or
// not the client ever sent a leave, then forgets the connection.
func (o *Orchestrator) OnDisconnect(conn domain.ConnID) {
	o.do(func() {
		for _, room := range o.Registry.RoomsOf(conn) {
			o.leave(conn, room, false)
		}
		o.Registry.Remove(conn)
	})
}
