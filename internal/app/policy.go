package app

import (
	"github.com/dkeye/CodeRoom/internal/config"
	"github.com/dkeye/CodeRoom/internal/domain"
)

type BackpressureAction int

const (
	KickMember BackpressureAction = iota
	DropFrame
)

type Policy interface {
	OnBackPressure(room domain.RoomID, conn domain.ConnID) BackpressureAction
}

// SimplePolicy disconnects any recipient whose send queue is full.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, conn domain.ConnID) BackpressureAction {
	return KickMember
}

// DropPolicy keeps slow recipients connected; they miss the frame.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(room domain.RoomID, conn domain.ConnID) BackpressureAction {
	return DropFrame
}

// PolicyFor maps a configured backpressure mode to its policy. Unknown modes kick.
func PolicyFor(mode string) Policy {
	if mode == config.BackpressureDrop {
		return DropPolicy{}
	}
	return SimplePolicy{}
}
