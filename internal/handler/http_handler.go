package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
	"github.com/priyanshij123/whiteboard-collab/internal/repository"
	"github.com/priyanshij123/whiteboard-collab/pkg/log"
	"github.com/priyanshij123/whiteboard-collab/pkg/response"
)

// HTTPHandler serves the informational rooms API: the persisted
// room-existence records and live member counts. Nothing here feeds back
// into the sync engine.
type HTTPHandler struct {
	repo repository.RoomRepository
	hub  *hub.Hub
}

func NewHTTPHandler(repo repository.RoomRepository, h *hub.Hub) *HTTPHandler {
	return &HTTPHandler{repo: repo, hub: h}
}

// RegisterRoutes registers all HTTP routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:id", h.GetRoom)
			rooms.GET("/:id/presence", h.GetPresence)
		}
	}
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.String(200, "OK")
}

// ListRooms lists persisted room records with pagination.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ListRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	rooms, total, err := h.repo.List(ctx, req.Page, req.PageSize)
	if err != nil {
		l.Error().Err(err).Msg("failed to list rooms")
		response.InternalError(c, "failed to list rooms")
		return
	}

	totalPages := (total + req.PageSize - 1) / req.PageSize
	response.Success(c, domain.ListRoomsResponse{
		Rooms:      rooms,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	})
}

// GetRoom retrieves one persisted room record.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	room, err := h.repo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room")
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room)
}

// GetPresence reports the live member count from the hub.
func (h *HTTPHandler) GetPresence(c *gin.Context) {
	roomID := c.Param("id")
	response.Success(c, domain.PresenceResponse{
		RoomID:  roomID,
		Members: h.hub.MemberCount(roomID),
	})
}
