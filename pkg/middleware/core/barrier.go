package core

import (
	"sync"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/bus"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// Barrier is a counting, reusable rendezvous. It is a process-group
// singleton: every middleware instance in a session shares one Barrier,
// constructed with the group's total participant count. A generation
// counter makes it safe to reuse across rounds: every participant returns
// from round k before any of them returns from round k+1.
type Barrier struct {
	mutex      sync.Mutex
	cond       *sync.Cond
	total      int
	arrived    int
	generation int
}

// NewBarrier builds a barrier for a group of the given size. Returns
// types.ErrBarrierMisuse if total is not positive.
func NewBarrier(total int) (*Barrier, error) {
	if total <= 0 {
		return nil, types.ErrBarrierMisuse
	}
	b := &Barrier{total: total}
	b.cond = sync.NewCond(&b.mutex)
	return b, nil
}

// Synchronize blocks the caller until all `total` participants have called
// it for the current round, then returns. Reusable across rounds: the Nth
// caller resets the counter and bumps the generation, releasing every
// participant parked on the previous generation.
func (b *Barrier) Synchronize() {
	b.mutex.Lock()
	gen := b.generation
	b.arrived++
	if b.arrived == b.total {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
	} else {
		for gen == b.generation {
			b.cond.Wait()
		}
	}
	b.mutex.Unlock()
}

// SyncPrimitives bundles the dependencies BroadcastSync/SendToSync/
// RecvFromSync need: the bus to publish on, the clock to stamp outgoing
// messages and merge incoming ones, this process's own appMailbox, its id,
// and the shared Barrier.
type SyncPrimitives struct {
	Self    types.ProcessId
	Bus     bus.Bus
	Clock   *Clock
	Mailbox *Mailbox
	Barrier *Barrier
}

// BroadcastSync is the synchronous group broadcast: every process calls
// this with the same (payload, senderID). The sender publishes and then
// synchronizes; everyone else waits for the matching broadcast before
// synchronizing.
func (s *SyncPrimitives) BroadcastSync(payload string, senderID types.ProcessId) {
	if s.Self == senderID {
		ts := s.Clock.IncLocal()
		m := types.NewBroadcast(s.Self, payload)
		m.Timestamp = ts
		s.Bus.Publish(m)
	} else {
		m, ok := s.Mailbox.WaitMatching(BroadcastFrom(senderID), nil)
		if ok {
			s.Clock.UpdateOnReceive(m.Timestamp)
		}
	}
	s.Barrier.Synchronize()
}

// SendToSync publishes a Directed message then synchronizes with the
// group. Every other participant must concurrently call Synchronize (or
// RecvFromSync) for the barrier to release.
func (s *SyncPrimitives) SendToSync(payload string, dest types.ProcessId) {
	ts := s.Clock.IncLocal()
	m := types.NewDirected(s.Self, dest, payload)
	m.Timestamp = ts
	s.Bus.Publish(m)
	s.Barrier.Synchronize()
}

// RecvFromSync waits for a Directed message from senderID, matched
// structurally on SenderID rather than by scanning the payload, merges the
// clock, then synchronizes and returns the payload.
func (s *SyncPrimitives) RecvFromSync(senderID types.ProcessId) (string, bool) {
	m, ok := s.Mailbox.WaitMatching(DirectedFrom(senderID), nil)
	if !ok {
		return "", false
	}
	s.Clock.UpdateOnReceive(m.Timestamp)
	s.Barrier.Synchronize()
	return m.Payload, true
}
