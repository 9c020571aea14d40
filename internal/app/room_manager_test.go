package app

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomManager_JoinValidation(t *testing.T) {
	rm := NewRoomManager()

	_, err := rm.Join("", "c1", "alice")
	assert.ErrorIs(t, err, domain.ErrEmptyRoomID)

	_, err = rm.Join("r1", "c1", "")
	assert.ErrorIs(t, err, domain.ErrEmptyIdentity)

	assert.Equal(t, domain.RoomAbsent, rm.State("r1"), "failed join must not create the room")
	assert.Empty(t, rm.List())
}

func TestRoomManager_LastLeaveDeletesRoom(t *testing.T) {
	rm := NewRoomManager()

	snap, err := rm.Join("r1", "a", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, snap)
	snap, err = rm.Join("r1", "b", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, snap)
	assert.Equal(t, domain.RoomActive, rm.State("r1"))

	res := rm.Leave("r1", "a")
	assert.True(t, res.Removed)
	assert.False(t, res.Deleted)
	assert.Equal(t, []string{"bob"}, res.Participants)

	res = rm.Leave("r1", "b")
	assert.True(t, res.Removed)
	assert.True(t, res.Deleted)
	assert.Equal(t, []string{}, res.Participants)

	assert.Equal(t, domain.RoomAbsent, rm.State("r1"))
	assert.Equal(t, []string{}, rm.Snapshot("r1"))
	assert.Nil(t, rm.Members("r1"))
}

func TestRoomManager_GenerationChangesOnRecreate(t *testing.T) {
	rm := NewRoomManager()
	assert.Zero(t, rm.Generation("r1"))

	_, err := rm.Join("r1", "a", "alice")
	require.NoError(t, err)
	first := rm.Generation("r1")
	assert.NotZero(t, first)

	_, err = rm.Join("r1", "b", "bob")
	require.NoError(t, err)
	assert.Equal(t, first, rm.Generation("r1"), "joining a live room keeps its generation")

	rm.Leave("r1", "a")
	rm.Leave("r1", "b")
	assert.Zero(t, rm.Generation("r1"))

	_, err = rm.Join("r1", "a", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, first, rm.Generation("r1"))
}

func TestRoomManager_LeaveNoops(t *testing.T) {
	rm := NewRoomManager()

	res := rm.Leave("nowhere", "a")
	assert.False(t, res.Removed)
	assert.False(t, res.Deleted)
	assert.Equal(t, []string{}, res.Participants)

	_, err := rm.Join("r1", "a", "alice")
	require.NoError(t, err)
	res = rm.Leave("r1", "stranger")
	assert.False(t, res.Removed)
	assert.False(t, res.Deleted)
	assert.Equal(t, []string{"alice"}, res.Participants)
}

func TestRoomManager_List(t *testing.T) {
	rm := NewRoomManager()
	_, _ = rm.Join("b", "c1", "x")
	_, _ = rm.Join("a", "c2", "y")
	_, _ = rm.Join("a", "c3", "z")

	list := rm.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoomID("a"), list[0].ID)
	assert.Equal(t, 2, list[0].MemberCount)
	assert.Equal(t, []string{"y", "z"}, list[0].Participants)
}

// Replaying random join/leave sequences must match a naive model.
func TestRoomManager_ReplayMatchesModel(t *testing.T) {
	conns := []domain.ConnID{"a", "b", "c", "d"}
	names := map[domain.ConnID]string{"a": "alice", "b": "bob", "c": "carol", "d": "alice"}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		rm := NewRoomManager()
		model := map[domain.ConnID]bool{}

		for step := 0; step < 40; step++ {
			c := conns[rng.Intn(len(conns))]
			if rng.Intn(2) == 0 {
				_, err := rm.Join("r", c, names[c])
				require.NoError(t, err)
				model[c] = true
			} else {
				rm.Leave("r", c)
				delete(model, c)
			}

			want := map[string]bool{}
			for c := range model {
				want[names[c]] = true
			}
			got := rm.Snapshot("r")
			assert.Equal(t, sortedKeys(want), sortedCopy(got))
			if len(model) == 0 {
				assert.Equal(t, domain.RoomAbsent, rm.State("r"))
			} else {
				assert.Equal(t, domain.RoomActive, rm.State("r"))
			}
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(s []string) []string {
	out := append([]string{}, s...)
	sort.Strings(out)
	return out
}
