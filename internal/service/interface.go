package service

import (
	"context"

	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
)

type BoardService interface {
	HandleJoinRoom(ctx context.Context, client *hub.Client, roomID string) error
	HandleDraw(ctx context.Context, client *hub.Client, op domain.Operation) error
	HandleClear(ctx context.Context, client *hub.Client) error
	HandleLeaveRoom(ctx context.Context, client *hub.Client) error
	HandleDisconnect(ctx context.Context, client *hub.Client) error
	Start(ctx context.Context) error
	Stop() error
}
