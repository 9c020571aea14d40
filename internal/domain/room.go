package domain

type RoomID string

// RoomState is the lifecycle of a room in the directory.
type RoomState int

const (
	RoomAbsent RoomState = iota
	RoomActive
)

func (s RoomState) String() string {
	switch s {
	case RoomActive:
		return "active"
	default:
		return "absent"
	}
}

// NextRoomState is the only transition rule: a room lives while it has members.
func NextRoomState(members int) RoomState {
	if members > 0 {
		return RoomActive
	}
	return RoomAbsent
}

func ValidateRoomID(id RoomID) error {
	if id == "" {
		return ErrEmptyRoomID
	}
	return nil
}
