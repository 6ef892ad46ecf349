package service

import (
	"context"
	"fmt"
	"time"

	"github.com/priyanshij123/whiteboard-collab/internal/audit"
	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
	"github.com/priyanshij123/whiteboard-collab/internal/registry"
	"github.com/priyanshij123/whiteboard-collab/internal/repository"
	"github.com/priyanshij123/whiteboard-collab/pkg/log"
)

const sideEffectTimeout = 5 * time.Second

type boardService struct {
	hub      *hub.Hub
	repo     repository.RoomRepository
	registry registry.Registry
}

func NewBoardService(h *hub.Hub, repo repository.RoomRepository, reg registry.Registry) BoardService {
	return &boardService{
		hub:      h,
		repo:     repo,
		registry: reg,
	}
}

func (s *boardService) HandleJoinRoom(ctx context.Context, c *hub.Client, roomID string) error {
	if roomID == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "room_id is required"))
	}

	// Leave current room if any
	if c.Session.IsInRoom() {
		s.handleLeaveInternal(ctx, c)
	}

	epoch, size := s.hub.Join(c, roomID)
	c.Session.JoinRoom(roomID)

	// Bookkeeping writes are dispatched and not awaited: their failure must
	// never abort or delay the join.
	go s.recordRoomSeen(roomID)

	audit.Log(ctx, audit.ActionJoinRoom, c.ID, roomID,
		fmt.Sprintf("joined room (epoch %d, %d ops replayed)", epoch, size))
	return nil
}

func (s *boardService) recordRoomSeen(roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	l := log.L()
	if err := s.repo.Upsert(ctx, roomID); err != nil {
		l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("room store unavailable, join proceeds on memory state")
	}
	if err := s.registry.RoomActive(ctx, roomID); err != nil {
		l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to advertise room")
	}
}

func (s *boardService) HandleDraw(ctx context.Context, c *hub.Client, op domain.Operation) error {
	l := log.Ctx(ctx)

	if !c.Session.IsInRoom() {
		// Frame raced past a leave or arrived before a join; drop it.
		l.Debug().Str(log.FieldConnID, c.ID).Msg("draw from connection outside any room, dropped")
		return nil
	}

	if err := op.Validate(); err != nil {
		l.Debug().Err(err).Str(log.FieldConnID, c.ID).Str(log.FieldOpType, string(op.Type)).Msg("rejected malformed operation")
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadOperation, err.Error()))
	}

	roomID := c.Session.CurrentRoom()
	stamped, ok := s.hub.Draw(c, roomID, op)
	if !ok {
		l.Debug().Str(log.FieldConnID, c.ID).Str(log.FieldRoomID, roomID).Msg("draw for missing room, dropped")
		return nil
	}

	l.Debug().
		Str(log.FieldConnID, c.ID).
		Str(log.FieldRoomID, roomID).
		Str(log.FieldOpType, string(stamped.Type)).
		Uint64(log.FieldSeq, stamped.Seq).
		Uint64(log.FieldEpoch, stamped.Epoch).
		Msg("operation accepted")
	return nil
}

func (s *boardService) HandleClear(ctx context.Context, c *hub.Client) error {
	l := log.Ctx(ctx)

	if !c.Session.IsInRoom() {
		l.Debug().Str(log.FieldConnID, c.ID).Msg("clear from connection outside any room, dropped")
		return nil
	}

	roomID := c.Session.CurrentRoom()
	epoch, ok := s.hub.Clear(c, roomID)
	if !ok {
		l.Debug().Str(log.FieldConnID, c.ID).Str(log.FieldRoomID, roomID).Msg("clear for missing room, dropped")
		return nil
	}

	audit.Log(ctx, audit.ActionClear, c.ID, roomID, fmt.Sprintf("room cleared (epoch %d)", epoch))
	return nil
}

func (s *boardService) HandleLeaveRoom(ctx context.Context, c *hub.Client) error {
	if !c.Session.IsInRoom() {
		return nil
	}
	return s.handleLeaveInternal(ctx, c)
}

func (s *boardService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	audit.Log(ctx, audit.ActionDisconnect, c.ID, c.Session.CurrentRoom(), "connection closed")
	if !c.Session.IsInRoom() {
		return nil
	}
	return s.handleLeaveInternal(ctx, c)
}

func (s *boardService) handleLeaveInternal(ctx context.Context, c *hub.Client) error {
	roomID := c.Session.CurrentRoom()
	if roomID == "" {
		return nil
	}

	emptied := s.hub.Leave(c, roomID)
	c.Session.LeaveRoom()

	if emptied {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()
			if err := s.registry.RoomInactive(ctx, roomID); err != nil {
				l := log.L()
				l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to withdraw room")
			}
		}()
	}

	audit.Log(ctx, audit.ActionLeaveRoom, c.ID, roomID, "left room")
	return nil
}

func (s *boardService) Start(ctx context.Context) error {
	if err := s.registry.StartHeartbeat(ctx); err != nil {
		return fmt.Errorf("failed to start registry heartbeat: %w", err)
	}
	l := log.L()
	l.Info().Msg("board service started")
	return nil
}

func (s *boardService) Stop() error {
	s.registry.StopHeartbeat()
	return nil
}
