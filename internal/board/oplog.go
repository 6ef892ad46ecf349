// Package board holds the in-memory synchronization state of the whiteboard:
// the per-room operation log and the epoch/sequence discipline around it.
package board

import (
	"sync"

	"github.com/priyanshij123/whiteboard-collab/internal/domain"
)

// OpLog is the append-only, ordered operation log of one room.
//
// Sequence numbers are strictly increasing and gapless, starting at 1.
// Clear starts a new epoch: the epoch counter is incremented and the
// sequence counter resets, so (epoch, seq) totally orders every operation
// the room has ever accepted and no pre-clear entry can be confused with a
// post-clear one.
//
// OpLog is safe for concurrent use. Callers that need append and some other
// action (like fan-out) to be observed atomically must provide their own
// serialization on top; the hub does this with its per-room lock.
type OpLog struct {
	mu    sync.Mutex
	epoch uint64
	seq   uint64
	ops   []domain.Operation
}

func NewOpLog() *OpLog {
	return &OpLog{}
}

// Append assigns the next sequence number, stores the operation at the tail,
// and returns the stamped operation.
func (l *OpLog) Append(op domain.Operation) domain.Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	op.Seq = l.seq
	op.Epoch = l.epoch
	l.ops = append(l.ops, op)
	return op
}

// Snapshot returns the current epoch and a copy of the log in append order.
// The copy reflects a single point in time: it can never mix pre-clear and
// post-clear entries.
func (l *OpLog) Snapshot() (uint64, []domain.Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ops := make([]domain.Operation, len(l.ops))
	copy(ops, l.ops)
	return l.epoch, ops
}

// Clear truncates the log, starts a new epoch, and returns it.
func (l *OpLog) Clear() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.epoch++
	l.seq = 0
	l.ops = nil
	return l.epoch
}

// Len returns the number of operations in the current epoch.
func (l *OpLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}
