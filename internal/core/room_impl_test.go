package core

import (
	"testing"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoomService_AddIsIdempotentPerConnection(t *testing.T) {
	r := NewRoomService("r1")
	r.AddMember(domain.Participant{Conn: "a", Name: "alice"})
	r.AddMember(domain.Participant{Conn: "a", Name: "alice"})
	r.AddMember(domain.Participant{Conn: "b", Name: "bob"})

	assert.Equal(t, 2, r.MemberCount())
	assert.Equal(t, []string{"alice", "bob"}, r.Participants())

	r.AddMember(domain.Participant{Conn: "a", Name: "alicia"})
	assert.Equal(t, []string{"alicia", "bob"}, r.Participants())
}

func TestRoomService_DuplicateNamesCollapse(t *testing.T) {
	r := NewRoomService("r1")
	r.AddMember(domain.Participant{Conn: "a", Name: "alice"})
	r.AddMember(domain.Participant{Conn: "b", Name: "alice"})

	assert.Equal(t, 2, r.MemberCount())
	assert.Equal(t, []string{"alice"}, r.Participants())

	assert.True(t, r.RemoveMember("a"))
	assert.Equal(t, []string{"alice"}, r.Participants(), "the other alice is still here")
}

func TestRoomService_Recipients(t *testing.T) {
	r := NewRoomService("r1")
	r.AddMember(domain.Participant{Conn: "a", Name: "alice"})
	r.AddMember(domain.Participant{Conn: "b", Name: "bob"})
	r.AddMember(domain.Participant{Conn: "c", Name: "carol"})

	assert.Equal(t, []domain.ConnID{"a", "b", "c"}, r.Recipients(""))
	assert.Equal(t, []domain.ConnID{"a", "c"}, r.Recipients("b"))
}

func TestRoomService_RemoveAbsent(t *testing.T) {
	r := NewRoomService("r1")
	assert.False(t, r.RemoveMember("ghost"))
	assert.Empty(t, r.Participants())
	assert.False(t, r.Has("ghost"))
}

func TestNewPresence_NilBecomesEmptyList(t *testing.T) {
	f, err := Encode(NewPresence("r1", nil))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"presenceUpdate","roomId":"r1","participants":[]}`, string(f))
}
