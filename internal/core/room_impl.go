package core

import (
	"github.com/dkeye/CodeRoom/internal/domain"
)

// roomImpl is an in-memory member set.
// It is not safe for concurrent use: the orchestrator loop is its only caller.
type roomImpl struct {
	id      domain.RoomID
	members []domain.Participant
}

func NewRoomService(id domain.RoomID) RoomService {
	return &roomImpl{id: id}
}

func (r *roomImpl) ID() domain.RoomID { return r.id }

func (r *roomImpl) MemberCount() int { return len(r.members) }

func (r *roomImpl) index(conn domain.ConnID) int {
	for i, m := range r.members {
		if m.Conn == conn {
			return i
		}
	}
	return -1
}

func (r *roomImpl) Has(conn domain.ConnID) bool { return r.index(conn) >= 0 }

// AddMember is idempotent per connection; a repeated add only refreshes the name.
func (r *roomImpl) AddMember(p domain.Participant) {
	if i := r.index(p.Conn); i >= 0 {
		r.members[i].Name = p.Name
		return
	}
	r.members = append(r.members, p)
}

func (r *roomImpl) RemoveMember(conn domain.ConnID) bool {
	i := r.index(conn)
	if i < 0 {
		return false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return true
}

func (r *roomImpl) Participants() []string {
	out := make([]string, 0, len(r.members))
	seen := make(map[string]struct{}, len(r.members))
	for _, m := range r.members {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m.Name)
	}
	return out
}

func (r *roomImpl) Recipients(exclude domain.ConnID) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(r.members))
	for _, m := range r.members {
		if m.Conn == exclude {
			continue
		}
		out = append(out, m.Conn)
	}
	return out
}
