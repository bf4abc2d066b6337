package core

import (
	"sync"
	"time"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// Mailbox is a thread-safe per-process FIFO. Only the owner dequeues; any
// goroutine may enqueue.
type Mailbox struct {
	owner types.ProcessId

	mutex  sync.Mutex
	cond   *sync.Cond
	queue  []types.Message
	closed bool
}

// NewMailbox builds an empty mailbox for the given owner.
func NewMailbox(owner types.ProcessId) *Mailbox {
	mb := &Mailbox{owner: owner}
	mb.cond = sync.NewCond(&mb.mutex)
	return mb
}

// Owner returns the process this mailbox belongs to.
func (mb *Mailbox) Owner() types.ProcessId {
	return mb.owner
}

// Deposit appends a message and wakes any waiter. Safe to call from any
// goroutine, including the bus's own delivery goroutines. A no-op once the
// mailbox is closed.
func (mb *Mailbox) Deposit(m types.Message) {
	mb.mutex.Lock()
	if mb.closed {
		mb.mutex.Unlock()
		return
	}
	mb.queue = append(mb.queue, m)
	mb.mutex.Unlock()
	mb.cond.Broadcast()
}

// TryGet dequeues the head message without blocking, returning ok=false if
// the mailbox is empty.
func (mb *Mailbox) TryGet() (types.Message, bool) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()
	return mb.popLocked()
}

// WaitGet blocks until a message is present, timeout elapses, or the
// mailbox is closed, returning ok=false in the latter two cases. timeout ==
// nil blocks indefinitely (until a message arrives or Close is called); a
// zero duration is a non-blocking probe equivalent to TryGet.
func (mb *Mailbox) WaitGet(timeout *time.Duration) (types.Message, bool) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	if timeout != nil && *timeout <= 0 {
		return mb.popLocked()
	}

	expired := false
	if timeout != nil {
		d := *timeout
		timer := time.AfterFunc(d, func() {
			mb.mutex.Lock()
			expired = true
			mb.mutex.Unlock()
			mb.cond.Broadcast()
		})
		defer timer.Stop()
	}

	for len(mb.queue) == 0 && !expired && !mb.closed {
		mb.cond.Wait()
	}
	return mb.popLocked()
}

// MatchFunc decides whether a queued message is the one a synchronous
// primitive is waiting for.
type MatchFunc func(types.Message) bool

// DirectedFrom matches a Directed message tagged with the given sender,
// structurally rather than by scanning the payload for a substring.
func DirectedFrom(id types.ProcessId) MatchFunc {
	return func(m types.Message) bool { return m.Kind == types.Directed && m.SenderID == id }
}

// BroadcastFrom matches a Broadcast message published by the given sender,
// the same structural-match tightening extended to broadcastSync so it
// doesn't have to rely on payload uniqueness either.
func BroadcastFrom(id types.ProcessId) MatchFunc {
	return func(m types.Message) bool { return m.Kind == types.Broadcast && m.From == id }
}

// PeekMatching scans the queue for the first message satisfying match,
// removing and returning it without disturbing the order of the remaining
// messages. The scan holds the mailbox lock for its whole duration, so a
// concurrent producer can never interleave between the scan and the next
// wait.
func (mb *Mailbox) PeekMatching(match MatchFunc) (types.Message, bool) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()
	i, ok := mb.indexMatchingLocked(match)
	if !ok {
		return types.Message{}, false
	}
	m := mb.queue[i]
	mb.queue = append(mb.queue[:i], mb.queue[i+1:]...)
	return m, true
}

// WaitMatching blocks until a message satisfying match is available or
// timeout elapses. Unrelated messages already queued, or arriving while
// waiting, are left untouched — the predicate re-checks the whole queue on
// every wakeup instead of consuming and redepositing.
func (mb *Mailbox) WaitMatching(match MatchFunc, timeout *time.Duration) (types.Message, bool) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	expired := false
	if timeout != nil {
		d := *timeout
		timer := time.AfterFunc(d, func() {
			mb.mutex.Lock()
			expired = true
			mb.mutex.Unlock()
			mb.cond.Broadcast()
		})
		defer timer.Stop()
	}

	for {
		if i, ok := mb.indexMatchingLocked(match); ok {
			m := mb.queue[i]
			mb.queue = append(mb.queue[:i], mb.queue[i+1:]...)
			return m, true
		}
		if expired || mb.closed {
			return types.Message{}, false
		}
		if timeout != nil && *timeout <= 0 {
			return types.Message{}, false
		}
		mb.cond.Wait()
	}
}

func (mb *Mailbox) indexMatchingLocked(match MatchFunc) (int, bool) {
	for i, m := range mb.queue {
		if match(m) {
			return i, true
		}
	}
	return 0, false
}

// Count returns the number of queued messages.
func (mb *Mailbox) Count() int {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()
	return len(mb.queue)
}

// HasAny reports whether the mailbox currently holds any message.
func (mb *Mailbox) HasAny() bool {
	return mb.Count() > 0
}

// Close marks the mailbox closed and wakes every blocked waiter. Once
// closed, WaitGet and WaitMatching return ok=false instead of parking, and
// Deposit silently drops further messages. Idempotent.
func (mb *Mailbox) Close() {
	mb.mutex.Lock()
	mb.closed = true
	mb.mutex.Unlock()
	mb.cond.Broadcast()
}

func (mb *Mailbox) popLocked() (types.Message, bool) {
	if len(mb.queue) == 0 {
		return types.Message{}, false
	}
	m := mb.queue[0]
	mb.queue = mb.queue[1:]
	return m, true
}
