// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrEmptyRoomID   = errors.New("room id empty")
	ErrEmptyIdentity = errors.New("identity empty")
)

// ConnID is the transport-assigned identifier of a live connection.
type ConnID string

// Participant is one connection's membership in a room.
// Name is a display attribute only; two connections may share it.
type Participant struct {
	Conn ConnID `json:"-"`
	Name string `json:"name"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(conn ConnID, name string) (Participant, error) {
	if err := ValidateIdentity(name); err != nil {
		return Participant{}, err
	}
	return Participant{Conn: conn, Name: name}, nil
}

func ValidateIdentity(name string) error {
	if len(name) == 0 {
		return ErrEmptyIdentity
	}
	return nil
}
