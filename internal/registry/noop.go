package registry

import "context"

// NoopRegistry is used when redis is disabled.
type NoopRegistry struct{}

func NewNoop() *NoopRegistry { return &NoopRegistry{} }

func (*NoopRegistry) RoomActive(context.Context, string) error   { return nil }
func (*NoopRegistry) RoomInactive(context.Context, string) error { return nil }
func (*NoopRegistry) StartHeartbeat(context.Context) error       { return nil }
func (*NoopRegistry) StopHeartbeat()                             {}
func (*NoopRegistry) Close() error                               { return nil }
