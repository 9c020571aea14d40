package orch

import (
	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// BufferUpdate relays the full buffer to everyone in the room but the sender.
func (o *Orchestrator) BufferUpdate(conn domain.ConnID, room domain.RoomID, code string) {
	o.do(func() {
		room, _, ok := o.memberRoom(conn, room)
		if !ok {
			return
		}
		o.broadcastExclusive(room, conn, core.BufferEvent{Type: core.EventBufferUpdate, RoomID: room, Code: code})
	})
}

// Typing tells the other members that conn is typing. The name sent is the
// one conn joined with.
func (o *Orchestrator) Typing(conn domain.ConnID, room domain.RoomID) {
	o.do(func() {
		room, name, ok := o.memberRoom(conn, room)
		if !ok {
			return
		}
		o.broadcastExclusive(room, conn, core.TypingEvent{Type: core.EventTypingIndicator, RoomID: room, UserName: name})
	})
}

// LanguageUpdate is room state, so the sender receives it too.
func (o *Orchestrator) LanguageUpdate(conn domain.ConnID, room domain.RoomID, language string) {
	o.do(func() {
		room, _, ok := o.memberRoom(conn, room)
		if !ok {
			return
		}
		o.broadcastInclusive(room, core.LanguageEvent{Type: core.EventLanguageUpdate, RoomID: room, Language: language})
	})
}

// memberRoom resolves the room an event is addressed to. An empty room id
// means the sender's room; a room the sender is not in is refused.
func (o *Orchestrator) memberRoom(conn domain.ConnID, requested domain.RoomID) (domain.RoomID, string, bool) {
	cur, name, ok := o.Registry.RoomOf(conn)
	if !ok || (requested != "" && requested != cur) {
		log.Warn().Str("module", "orch").Str("conn", string(conn)).Str("room", string(requested)).Msg("event for a room the sender is not in")
		o.sendTo(conn, core.NewError(core.ErrCodeNotInRoom))
		return "", "", false
	}
	return cur, name, true
}

func (o *Orchestrator) broadcastInclusive(room domain.RoomID, v any) core.PublishResult {
	return o.broadcast(room, "", v)
}

func (o *Orchestrator) broadcastExclusive(room domain.RoomID, from domain.ConnID, v any) core.PublishResult {
	return o.broadcast(room, from, v)
}

// broadcast queues one encoded frame to every member except from. Members
// are served in join order from this goroutine only, which keeps per-room
// delivery FIFO for every recipient.
func (o *Orchestrator) broadcast(room domain.RoomID, from domain.ConnID, v any) core.PublishResult {
	res := core.PublishResult{}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode broadcast")
		return res
	}
	for _, id := range o.Rooms.Members(room) {
		if id == from {
			continue
		}
		if !o.trySend(id, frame) {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "orch").Str("room", string(room)).Str("from", string(from)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	o.applyPolicy(room, res.Dropped)
	return res
}

func (o *Orchestrator) applyPolicy(room domain.RoomID, dropped []domain.ConnID) {
	if o.Policy == nil {
		return
	}
	for _, id := range dropped {
		switch o.Policy.OnBackPressure(room, id) {
		case app.KickMember:
			if sc, ok := o.Registry.Conn(id); ok {
				log.Warn().Str("module", "orch").Str("conn", string(id)).Str("room", string(room)).Msg("kicking slow member")
				// The transport reports the close back through OnDisconnect.
				sc.Close()
			}
		case app.DropFrame:
			log.Debug().Str("module", "orch").Str("conn", string(id)).Str("room", string(room)).Msg("frame dropped for slow member")
		}
	}
}

func (o *Orchestrator) sendTo(conn domain.ConnID, v any) bool {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode direct")
		return false
	}
	return o.trySend(conn, frame)
}

func (o *Orchestrator) trySend(conn domain.ConnID, frame core.Frame) bool {
	sc, ok := o.Registry.Conn(conn)
	if !ok {
		return false
	}
	if err := sc.TrySend(frame); err != nil {
		app.FramesDropped.Inc()
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn)).Msg("send failed")
		return false
	}
	app.FramesSent.Inc()
	return true
}
