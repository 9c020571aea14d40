package app

import (
	"sort"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManagerImpl is the room directory.
// Like Registry it is owned by the orchestrator loop and takes no locks.
type RoomManagerImpl struct {
	rooms   map[domain.RoomID]core.RoomService
	gens    map[domain.RoomID]uint64
	nextGen uint64
}

func NewRoomManager() core.RoomDirectory {
	return &RoomManagerImpl{
		rooms: make(map[domain.RoomID]core.RoomService),
		gens:  make(map[domain.RoomID]uint64),
	}
}

func (f *RoomManagerImpl) Join(id domain.RoomID, conn domain.ConnID, name string) ([]string, error) {
	if err := domain.ValidateRoomID(id); err != nil {
		return nil, err
	}
	p, err := domain.NewParticipant(conn, name)
	if err != nil {
		return nil, err
	}
	room, ok := f.rooms[id]
	if !ok {
		room = core.NewRoomService(id)
		f.rooms[id] = room
		f.nextGen++
		f.gens[id] = f.nextGen
		roomsActive.Set(float64(len(f.rooms)))
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	}
	room.AddMember(p)
	return room.Participants(), nil
}

func (f *RoomManagerImpl) Leave(id domain.RoomID, conn domain.ConnID) core.LeaveResult {
	room, ok := f.rooms[id]
	if !ok {
		return core.LeaveResult{Participants: []string{}}
	}
	res := core.LeaveResult{Removed: room.RemoveMember(conn)}
	if domain.NextRoomState(room.MemberCount()) == domain.RoomAbsent {
		delete(f.rooms, id)
		delete(f.gens, id)
		roomsActive.Set(float64(len(f.rooms)))
		res.Deleted = true
		res.Participants = []string{}
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
		return res
	}
	res.Participants = room.Participants()
	return res
}

func (f *RoomManagerImpl) Snapshot(id domain.RoomID) []string {
	if room, ok := f.rooms[id]; ok {
		return room.Participants()
	}
	return []string{}
}

func (f *RoomManagerImpl) Members(id domain.RoomID) []domain.ConnID {
	if room, ok := f.rooms[id]; ok {
		return room.Recipients("")
	}
	return nil
}

func (f *RoomManagerImpl) State(id domain.RoomID) domain.RoomState {
	if room, ok := f.rooms[id]; ok {
		return domain.NextRoomState(room.MemberCount())
	}
	return domain.RoomAbsent
}

func (f *RoomManagerImpl) Generation(id domain.RoomID) uint64 {
	return f.gens[id]
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount(), Participants: r.Participants()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
