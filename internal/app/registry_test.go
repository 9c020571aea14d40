package app

import (
	"testing"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/stretchr/testify/assert"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()
	r.Add("c1", nopConn{})
	assert.Equal(t, 1, r.Count())

	_, _, ok := r.RoomOf("c1")
	assert.False(t, ok, "fresh connection has no room")
	assert.Empty(t, r.RoomsOf("c1"))

	assert.True(t, r.Bind("c1", "r1", "alice"))
	room, name, ok := r.RoomOf("c1")
	assert.True(t, ok)
	assert.Equal(t, "r1", string(room))
	assert.Equal(t, "alice", name)
	assert.Len(t, r.RoomsOf("c1"), 1)

	r.Unbind("c1")
	_, _, ok = r.RoomOf("c1")
	assert.False(t, ok)

	assert.True(t, r.Remove("c1"))
	assert.False(t, r.Remove("c1"))
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_BindUnknown(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Bind("ghost", "r1", "alice"))
	_, ok := r.Conn("ghost")
	assert.False(t, ok)
}
