package registry

import "context"

// Registry advertises which rooms are live on this instance. It is
// informational only: the sync path never waits on it and tolerates every
// failure.
type Registry interface {
	RoomActive(ctx context.Context, roomID string) error
	RoomInactive(ctx context.Context, roomID string) error
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}
