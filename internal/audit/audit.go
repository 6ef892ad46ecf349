package audit

import (
	"context"

	"github.com/priyanshij123/whiteboard-collab/pkg/log"
)

// Audit actions for the sync engine.
const (
	ActionJoinRoom   = "board.join_room"
	ActionLeaveRoom  = "board.leave_room"
	ActionDraw       = "board.draw"
	ActionClear      = "board.clear"
	ActionDisconnect = "board.disconnect"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, connID, roomID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str("action", action).
		Str(log.FieldConnID, connID).
		Str(log.FieldRoomID, roomID).
		Msg(msg)
}
