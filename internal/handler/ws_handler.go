package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/priyanshij123/whiteboard-collab/internal/config"
	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
	"github.com/priyanshij123/whiteboard-collab/internal/service"
	"github.com/priyanshij123/whiteboard-collab/pkg/log"
)

type WSHandler struct {
	hub      *hub.Hub
	service  service.BoardService
	wsCfg    config.WebSocketConfig
	upgrader websocket.Upgrader
}

func NewWSHandler(h *hub.Hub, svc service.BoardService, srvCfg config.ServerConfig, wsCfg config.WebSocketConfig) *WSHandler {
	allowed := srvCfg.AllowedOrigin
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowed == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowed
			},
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleMessage)
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	l := log.L()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeJoinRoom:
		var msg domain.JoinRoomMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid join-room message"))
			return
		}
		if err := h.service.HandleJoinRoom(ctx, client, msg.RoomID); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("join room failed")
		}

	case domain.MsgTypeDraw:
		var msg domain.DrawMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid draw message"))
			return
		}
		if err := h.service.HandleDraw(ctx, client, msg.Op); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("draw failed")
		}

	case domain.MsgTypeClear:
		if err := h.service.HandleClear(ctx, client); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("clear failed")
		}

	case domain.MsgTypeLeaveRoom:
		if err := h.service.HandleLeaveRoom(ctx, client); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("leave room failed")
		}

	case domain.MsgTypePing:
		client.SendMessage(map[string]string{"type": domain.MsgTypePong})

	default:
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "unknown message type"))
	}
}
