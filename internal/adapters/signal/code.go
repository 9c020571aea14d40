package signal

import (
	"github.com/dkeye/CodeRoom/internal/domain"
)

func (ctl *SignalWSController) handleBufferUpdate(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p struct {
		RoomID string `json:"roomId"`
		Code   string `json:"code"`
	}
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.Orch.BufferUpdate(id, domain.RoomID(p.RoomID), p.Code)
}

func (ctl *SignalWSController) handleTyping(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.Orch.Typing(id, domain.RoomID(p.RoomID))
}

func (ctl *SignalWSController) handleLanguageUpdate(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p struct {
		RoomID   string `json:"roomId"`
		Language string `json:"language"`
	}
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.Orch.LanguageUpdate(id, domain.RoomID(p.RoomID), p.Language)
}

func (ctl *SignalWSController) handleExecutionRequest(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p struct {
		RoomID   string `json:"roomId"`
		Code     string `json:"code"`
		Language string `json:"language"`
		Version  string `json:"version"`
	}
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.Orch.Execute(id, domain.RoomID(p.RoomID), p.Code, p.Language, p.Version)
}
