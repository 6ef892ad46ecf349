package domain

// WebSocket message types from client. Event names match the original
// browser protocol (hyphenated).
const (
	MsgTypeJoinRoom  = "join-room"
	MsgTypeDraw      = "draw"
	MsgTypeClear     = "clear"
	MsgTypeLeaveRoom = "leave-room"
	MsgTypePing      = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeRoomJoined  = "room-joined"
	MsgTypeLoadHistory = "load-history"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeBadOperation  = "BAD_OPERATION"
	ErrCodeNotInRoom     = "NOT_IN_ROOM"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type JoinRoomMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type DrawMessage struct {
	Type string    `json:"type"`
	Op   Operation `json:"op"`
}

type LeaveRoomMessage struct {
	Type string `json:"type"`
}

// Server -> Client messages

type RoomJoinedMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Epoch  uint64 `json:"epoch"`
}

// LoadHistoryMessage carries the full ordered log of a room, delivered once
// to a joining connection, never broadcast.
type LoadHistoryMessage struct {
	Type   string      `json:"type"`
	RoomID string      `json:"room_id"`
	Epoch  uint64      `json:"epoch"`
	Ops    []Operation `json:"ops"`
}

// DrawBroadcast is the relay of an accepted, sequence-stamped operation to
// the other members of a room.
type DrawBroadcast struct {
	Type   string    `json:"type"`
	RoomID string    `json:"room_id"`
	Op     Operation `json:"op"`
}

// ClearBroadcast signals an atomic log reset; Epoch is the new epoch.
type ClearBroadcast struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Epoch  uint64 `json:"epoch"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
