package signal

import (
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(
	id domain.ConnID,
	conn *WsSignalConn,
) {
	resp := struct {
		Type     string        `json:"type"`
		Conn     domain.ConnID `json:"conn"`
		UserName string        `json:"userName,omitempty"`
		RoomID   domain.RoomID `json:"roomId,omitempty"`
	}{
		Type: core.EventWhoAmI,
		Conn: id,
	}
	if room, name, ok := ctl.Orch.WhoAmI(id); ok {
		resp.RoomID = room
		resp.UserName = name
	}
	ctl.sendJSON(conn, resp)
}
