package signal

import (
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(
	id domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		UserName string `json:"userName"`
	}
	var p joinPayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomID).Str("name", p.UserName).Msg("join")
	ctl.Orch.Join(id, domain.RoomID(p.RoomID), p.UserName)
}

// handleLeave leaves the room but keeps the connection open.
func (ctl *SignalWSController) handleLeave(
	id domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type leavePayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		UserName string `json:"userName,omitempty"`
	}
	var p leavePayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomID).Msg("leave")
	ctl.Orch.Leave(id, domain.RoomID(p.RoomID))
}
