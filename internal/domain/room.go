package domain

import (
	"time"
)

// Room is the persisted room-existence record. It is bookkeeping only: the
// sync engine writes it on join and never reads it back, so it carries no
// live state and is not kept consistent with the in-memory log.
type Room struct {
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	RoomID    string    `gorm:"type:varchar(255);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for RoomModel.
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts RoomModel to domain Room.
func (m *RoomModel) ToDomain() *Room {
	return &Room{
		RoomID:    m.RoomID,
		CreatedAt: m.CreatedAt,
	}
}

// ListRoomsRequest represents a list rooms request.
type ListRoomsRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ListRoomsResponse represents a paginated list response.
type ListRoomsResponse struct {
	Rooms      []Room `json:"rooms"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// PresenceResponse reports the live member count of a room from the hub.
type PresenceResponse struct {
	RoomID  string `json:"room_id"`
	Members int    `json:"members"`
}
