package repository

import (
	"context"
	"errors"

	"github.com/priyanshij123/whiteboard-collab/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository persists the room-existence record. The sync engine only
// ever upserts; the read side serves the informational rooms API.
type RoomRepository interface {
	Upsert(ctx context.Context, roomID string) error
	GetByID(ctx context.Context, roomID string) (*domain.Room, error)
	List(ctx context.Context, page, pageSize int) ([]domain.Room, int, error)
}
