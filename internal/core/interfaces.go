package core

import (
	"context"
	"encoding/json"

	"github.com/dkeye/CodeRoom/internal/domain"
)

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnID
}

// RoomService is the member set of one room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	ID() domain.RoomID
	MemberCount() int
	// Participants returns display names in join order, duplicates collapsed.
	Participants() []string
	// Recipients returns member connections in join order, skipping exclude.
	Recipients(exclude domain.ConnID) []domain.ConnID
	Has(conn domain.ConnID) bool

	AddMember(p domain.Participant)
	RemoveMember(conn domain.ConnID) bool
}

type RoomInfo struct {
	ID           domain.RoomID `json:"id"`
	MemberCount  int           `json:"member_count"`
	Participants []string      `json:"participants"`
}

type LeaveResult struct {
	Participants []string
	Removed      bool
	Deleted      bool
}

// RoomDirectory maps room ids to their member sets.
// A room is present iff it has at least one member.
type RoomDirectory interface {
	Join(id domain.RoomID, conn domain.ConnID, name string) ([]string, error)
	Leave(id domain.RoomID, conn domain.ConnID) LeaveResult
	Snapshot(id domain.RoomID) []string
	Members(id domain.RoomID) []domain.ConnID
	State(id domain.RoomID) domain.RoomState
	// Generation identifies one lifetime of a room. A room recreated under
	// the same id gets a new generation; absent rooms report 0.
	Generation(id domain.RoomID) uint64
	List() []RoomInfo
}

// ExecRequest is one run of a buffer against the execution service.
type ExecRequest struct {
	Language string
	Version  string
	Code     string
}

// Executor runs source text remotely and returns the service's result verbatim.
type Executor interface {
	Execute(ctx context.Context, req ExecRequest) (json.RawMessage, error)
}
