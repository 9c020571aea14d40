package core

import (
	"encoding/json"

	"github.com/dkeye/CodeRoom/internal/domain"
)

// Inbound event types.
const (
	EventJoin             = "join"
	EventLeave            = "leave"
	EventBufferUpdate     = "bufferUpdate"
	EventTypingIndicator  = "typingIndicator"
	EventLanguageUpdate   = "languageUpdate"
	EventExecutionRequest = "executionRequest"
	EventPing             = "ping"
	EventWhoAmI           = "whoami"
)

// Outbound-only event types.
const (
	EventPresenceUpdate    = "presenceUpdate"
	EventExecutionAccepted = "executionAccepted"
	EventExecutionResult   = "executionResult"
	EventError             = "error"
	EventPong              = "pong"
)

// Error codes carried by EventError.
const (
	ErrCodeBadPayload  = "bad_payload"
	ErrCodeInvalidJoin = "invalid_join"
	ErrCodeNotInRoom   = "not_in_room"
)

// AnyVersion lets the execution service pick the runtime version.
const AnyVersion = "*"

// ExecutionFailed is the single shape every upstream fault degrades to.
var ExecutionFailed = json.RawMessage(`{"error":"Compilation failed"}`)

type PresenceEvent struct {
	Type         string        `json:"type"`
	RoomID       domain.RoomID `json:"roomId"`
	Participants []string      `json:"participants"`
}

type BufferEvent struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	Code   string        `json:"code"`
}

type TypingEvent struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	UserName string        `json:"userName"`
}

type LanguageEvent struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	Language string        `json:"language"`
}

type ExecutionAcceptedEvent struct {
	Type      string        `json:"type"`
	RoomID    domain.RoomID `json:"roomId"`
	RequestID string        `json:"requestId"`
}

type ExecutionResultEvent struct {
	Type      string          `json:"type"`
	RoomID    domain.RoomID   `json:"roomId"`
	RequestID string          `json:"requestId"`
	Result    json.RawMessage `json:"result"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewPresence(room domain.RoomID, participants []string) PresenceEvent {
	if participants == nil {
		participants = []string{}
	}
	return PresenceEvent{Type: EventPresenceUpdate, RoomID: room, Participants: participants}
}

func NewError(code string) ErrorEvent {
	return ErrorEvent{Type: EventError, Error: code}
}

// Encode marshals an event into a frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
