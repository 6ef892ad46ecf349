package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshij123/whiteboard-collab/internal/config"
	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
	"github.com/priyanshij123/whiteboard-collab/internal/repository"
)

type fakeRepo struct {
	mu      sync.Mutex
	upserts []string
	err     error
}

func (f *fakeRepo) Upsert(_ context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, roomID)
	return f.err
}

func (f *fakeRepo) GetByID(context.Context, string) (*domain.Room, error) {
	return nil, repository.ErrRoomNotFound
}

func (f *fakeRepo) List(context.Context, int, int) ([]domain.Room, int, error) {
	return nil, 0, nil
}

type fakeRegistry struct {
	mu       sync.Mutex
	active   []string
	inactive []string
	started  bool
	activeCh chan string
	gone     chan string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		activeCh: make(chan string, 16),
		gone:     make(chan string, 16),
	}
}

func (f *fakeRegistry) RoomActive(_ context.Context, roomID string) error {
	f.mu.Lock()
	f.active = append(f.active, roomID)
	f.mu.Unlock()
	f.activeCh <- roomID
	return nil
}

func (f *fakeRegistry) RoomInactive(_ context.Context, roomID string) error {
	f.mu.Lock()
	f.inactive = append(f.inactive, roomID)
	f.mu.Unlock()
	f.gone <- roomID
	return nil
}

func (f *fakeRegistry) StartHeartbeat(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeRegistry) StopHeartbeat() {}
func (f *fakeRegistry) Close() error   { return nil }

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 1 << 20,
		SendBuffer:     1024,
	}
}

type fixture struct {
	hub  *hub.Hub
	repo *fakeRepo
	reg  *fakeRegistry
	svc  BoardService
}

func newFixture() *fixture {
	h := hub.NewHub(config.RoomConfig{})
	repo := &fakeRepo{}
	reg := newFakeRegistry()
	return &fixture{
		hub:  h,
		repo: repo,
		reg:  reg,
		svc:  NewBoardService(h, repo, reg),
	}
}

func (f *fixture) newClient(id string) *hub.Client {
	return hub.NewClient(id, f.hub, nil, testWSConfig())
}

func nextRaw(t *testing.T, c *hub.Client) []byte {
	t.Helper()
	select {
	case b := <-c.Send:
		return b
	default:
		t.Fatal("expected a queued message, send queue is empty")
		return nil
	}
}

func noMore(t *testing.T, c *hub.Client) {
	t.Helper()
	select {
	case b := <-c.Send:
		t.Fatalf("unexpected queued message: %s", b)
	default:
	}
}

func msgType(t *testing.T, b []byte) string {
	t.Helper()
	var base domain.BaseMessage
	require.NoError(t, json.Unmarshal(b, &base))
	return base.Type
}

func join(t *testing.T, f *fixture, c *hub.Client, roomID string) domain.LoadHistoryMessage {
	t.Helper()
	require.NoError(t, f.svc.HandleJoinRoom(context.Background(), c, roomID))
	require.Equal(t, domain.MsgTypeRoomJoined, msgType(t, nextRaw(t, c)))

	raw := nextRaw(t, c)
	require.Equal(t, domain.MsgTypeLoadHistory, msgType(t, raw))
	var hist domain.LoadHistoryMessage
	require.NoError(t, json.Unmarshal(raw, &hist))
	return hist
}

func waitFor(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestJoinDeliversSnapshotAndRecordsRoom(t *testing.T) {
	f := newFixture()
	c := f.newClient("a")

	hist := join(t, f, c, "r1")
	assert.Empty(t, hist.Ops)
	assert.Equal(t, "r1", c.Session.CurrentRoom())

	waitFor(t, f.reg.activeCh, "r1")
	f.repo.mu.Lock()
	assert.Equal(t, []string{"r1"}, f.repo.upserts)
	f.repo.mu.Unlock()
}

func TestJoinProceedsWhenStoreUnavailable(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("store down")

	c := f.newClient("a")
	hist := join(t, f, c, "r1")

	assert.Empty(t, hist.Ops)
	assert.Equal(t, "r1", c.Session.CurrentRoom())
	assert.Equal(t, 1, f.hub.MemberCount("r1"))
}

func TestJoinEmptyRoomIDRejected(t *testing.T) {
	f := newFixture()
	c := f.newClient("a")

	require.NoError(t, f.svc.HandleJoinRoom(context.Background(), c, ""))

	raw := nextRaw(t, c)
	require.Equal(t, domain.MsgTypeError, msgType(t, raw))
	assert.False(t, c.Session.IsInRoom())
}

func TestJoinSwitchesRooms(t *testing.T) {
	f := newFixture()
	c := f.newClient("a")

	join(t, f, c, "r1")
	join(t, f, c, "r2")

	assert.Equal(t, "r2", c.Session.CurrentRoom())
	assert.Equal(t, 0, f.hub.MemberCount("r1"))
	assert.Equal(t, 1, f.hub.MemberCount("r2"))
}

func TestDrawAppendsAndRelays(t *testing.T) {
	f := newFixture()
	a := f.newClient("a")
	b := f.newClient("b")
	join(t, f, a, "r1")
	join(t, f, b, "r1")

	op := domain.NewLine(0, 0, 10, 10, "#000000", 2)
	require.NoError(t, f.svc.HandleDraw(context.Background(), a, op))

	raw := nextRaw(t, b)
	require.Equal(t, domain.MsgTypeDraw, msgType(t, raw))
	var got domain.DrawBroadcast
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, uint64(1), got.Op.Seq)
	assert.Equal(t, "#000000", got.Op.Color)

	noMore(t, a)
}

func TestMalformedDrawRejectedWithoutLogMutation(t *testing.T) {
	f := newFixture()
	a := f.newClient("a")
	b := f.newClient("b")
	join(t, f, a, "r1")
	join(t, f, b, "r1")

	bad := domain.NewRect(1, 2, 3, 4, "#000", 1)
	bad.H = nil
	require.NoError(t, f.svc.HandleDraw(context.Background(), a, bad))

	raw := nextRaw(t, a)
	require.Equal(t, domain.MsgTypeError, msgType(t, raw))
	var errMsg domain.ErrorMessage
	require.NoError(t, json.Unmarshal(raw, &errMsg))
	assert.Equal(t, domain.ErrCodeBadOperation, errMsg.Code)

	// Nothing was appended, nothing relayed.
	noMore(t, b)
	late := f.newClient("late")
	hist := join(t, f, late, "r1")
	assert.Empty(t, hist.Ops)
}

func TestDrawOutsideRoomDroppedSilently(t *testing.T) {
	f := newFixture()
	c := f.newClient("a")

	require.NoError(t, f.svc.HandleDraw(context.Background(), c, domain.NewLine(0, 0, 1, 1, "#000", 1)))
	noMore(t, c)

	require.NoError(t, f.svc.HandleClear(context.Background(), c))
	noMore(t, c)
}

func TestClearRelaysEpochToPeers(t *testing.T) {
	f := newFixture()
	a := f.newClient("a")
	b := f.newClient("b")
	join(t, f, a, "r1")
	join(t, f, b, "r1")

	require.NoError(t, f.svc.HandleDraw(context.Background(), a, domain.NewLine(0, 0, 1, 1, "#000", 1)))
	nextRaw(t, b) // the draw relay

	require.NoError(t, f.svc.HandleClear(context.Background(), a))

	raw := nextRaw(t, b)
	require.Equal(t, domain.MsgTypeClear, msgType(t, raw))
	var cleared domain.ClearBroadcast
	require.NoError(t, json.Unmarshal(raw, &cleared))
	assert.Equal(t, uint64(1), cleared.Epoch)
	noMore(t, a)

	late := f.newClient("late")
	hist := join(t, f, late, "r1")
	assert.Empty(t, hist.Ops)
	assert.Equal(t, uint64(1), hist.Epoch)
}

func TestLeaveEmptiedRoomWithdrawsAdvertisement(t *testing.T) {
	f := newFixture()
	a := f.newClient("a")
	join(t, f, a, "r1")
	waitFor(t, f.reg.activeCh, "r1")

	require.NoError(t, f.svc.HandleLeaveRoom(context.Background(), a))

	assert.False(t, a.Session.IsInRoom())
	waitFor(t, f.reg.gone, "r1")
}

func TestDisconnectLeavesCurrentRoom(t *testing.T) {
	f := newFixture()
	a := f.newClient("a")
	b := f.newClient("b")
	join(t, f, a, "r1")
	join(t, f, b, "r1")

	require.NoError(t, f.svc.HandleDisconnect(context.Background(), a))

	assert.Equal(t, 1, f.hub.MemberCount("r1"))
	assert.False(t, a.Session.IsInRoom())

	// Disconnecting while in no room is a no-op.
	require.NoError(t, f.svc.HandleDisconnect(context.Background(), a))
}

func TestStartBeginsRegistryHeartbeat(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.Start(context.Background()))
	f.reg.mu.Lock()
	assert.True(t, f.reg.started)
	f.reg.mu.Unlock()
	require.NoError(t, f.svc.Stop())
}
