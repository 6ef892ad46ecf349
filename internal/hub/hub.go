// Package hub tracks room membership and relays accepted operations to room
// peers. Each room is serialized by its own mutex: joining (with its
// snapshot), appending (with its fan-out), and clearing (with its fan-out)
// each run inside the room's critical section, which is what makes the
// snapshot-then-broadcast order every client observes equal the log's append
// order. Rooms never share a lock, so unrelated rooms proceed in parallel.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/priyanshij123/whiteboard-collab/internal/board"
	"github.com/priyanshij123/whiteboard-collab/internal/config"
	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/pkg/log"
)

type room struct {
	mu      sync.Mutex
	id      string
	members map[string]*Client
	log     *board.OpLog

	// set under mu when the room is removed from the hub map; a joiner
	// holding a stale pointer retries against the map.
	evicted bool
}

type Hub struct {
	mu             sync.RWMutex
	rooms          map[string]*room
	evictWhenEmpty bool
}

func NewHub(cfg config.RoomConfig) *Hub {
	return &Hub{
		rooms:          make(map[string]*room),
		evictWhenEmpty: cfg.EvictWhenEmpty,
	}
}

func (h *Hub) getOrCreate(roomID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[roomID]
	if !ok {
		rm = &room{
			id:      roomID,
			members: make(map[string]*Client),
			log:     board.NewOpLog(),
		}
		h.rooms[roomID] = rm
	}
	return rm
}

func (h *Hub) get(roomID string) *room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[roomID]
}

// Join adds the client to the room, creating it on first sight of the id
// (any string is accepted; the namespace is opaque). The room-joined and
// load-history messages are enqueued on the client's send queue inside the
// room critical section, so every operation broadcast after the join lands
// behind the snapshot in the client's socket order.
func (h *Hub) Join(c *Client, roomID string) (epoch uint64, size int) {
	for {
		rm := h.getOrCreate(roomID)
		rm.mu.Lock()
		if rm.evicted {
			rm.mu.Unlock()
			continue
		}

		rm.members[c.ID] = c
		epoch, ops := rm.log.Snapshot()

		joined, _ := json.Marshal(domain.RoomJoinedMessage{
			Type:   domain.MsgTypeRoomJoined,
			RoomID: roomID,
			Epoch:  epoch,
		})
		history, _ := json.Marshal(domain.LoadHistoryMessage{
			Type:   domain.MsgTypeLoadHistory,
			RoomID: roomID,
			Epoch:  epoch,
			Ops:    ops,
		})
		c.trySend(joined)
		c.trySend(history)

		rm.mu.Unlock()

		l := log.L()
		l.Info().Str(log.FieldConnID, c.ID).Str(log.FieldRoomID, roomID).Int("history", len(ops)).Msg("client joined room")
		return epoch, len(ops)
	}
}

// Leave removes the client from the room. Reports whether the room's member
// set became empty; an emptied room is garbage-collected only when the hub
// was configured to evict, otherwise its log is retained for rejoiners.
func (h *Hub) Leave(c *Client, roomID string) (emptied bool) {
	rm := h.get(roomID)
	if rm == nil {
		return false
	}

	rm.mu.Lock()
	delete(rm.members, c.ID)
	emptied = len(rm.members) == 0
	if emptied && h.evictWhenEmpty {
		rm.evicted = true
		h.mu.Lock()
		if h.rooms[roomID] == rm {
			delete(h.rooms, roomID)
		}
		h.mu.Unlock()
	}
	rm.mu.Unlock()

	l := log.L()
	l.Info().Str(log.FieldConnID, c.ID).Str(log.FieldRoomID, roomID).Bool("emptied", emptied).Msg("client left room")
	return emptied
}

// Draw appends the operation to the room's log and relays the stamped result
// to every other current member, in append order. Reports false when the
// room is gone or the client is not a member (a late or misrouted frame);
// the caller drops such frames without touching any log.
func (h *Hub) Draw(c *Client, roomID string, op domain.Operation) (domain.Operation, bool) {
	rm := h.get(roomID)
	if rm == nil {
		return domain.Operation{}, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.evicted {
		return domain.Operation{}, false
	}
	if _, ok := rm.members[c.ID]; !ok {
		return domain.Operation{}, false
	}

	stamped := rm.log.Append(op)

	data, _ := json.Marshal(domain.DrawBroadcast{
		Type:   domain.MsgTypeDraw,
		RoomID: roomID,
		Op:     stamped,
	})
	for id, member := range rm.members {
		if id == c.ID {
			continue
		}
		member.trySend(data)
	}

	return stamped, true
}

// Clear atomically truncates the room's log, starting a new epoch, and
// signals every other member. No in-flight append can straddle the reset:
// appends and the clear contend for the same room lock, so each lands
// entirely before or entirely after it.
func (h *Hub) Clear(c *Client, roomID string) (uint64, bool) {
	rm := h.get(roomID)
	if rm == nil {
		return 0, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.evicted {
		return 0, false
	}
	if _, ok := rm.members[c.ID]; !ok {
		return 0, false
	}

	epoch := rm.log.Clear()

	data, _ := json.Marshal(domain.ClearBroadcast{
		Type:   domain.MsgTypeClear,
		RoomID: roomID,
		Epoch:  epoch,
	})
	for id, member := range rm.members {
		if id == c.ID {
			continue
		}
		member.trySend(data)
	}

	return epoch, true
}

// MemberCount returns the number of connections currently in the room.
func (h *Hub) MemberCount(roomID string) int {
	rm := h.get(roomID)
	if rm == nil {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.members)
}

// RoomCount returns the number of rooms currently held in memory.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
