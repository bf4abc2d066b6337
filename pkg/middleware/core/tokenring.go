package core

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/bus"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// CSState is one of the three legal token-ring states.
type CSState int

const (
	Idle CSState = iota
	HasToken
	InCS
)

func (s CSState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case HasToken:
		return "HAS_TOKEN"
	case InCS:
		return "IN_CS"
	default:
		return "UNKNOWN"
	}
}

// TokenRing implements the token-ring mutual-exclusion state machine: a
// single token circulates around the group, and a process may enter its
// critical section only while holding it.
//
// Only the mailbox-consumer path (OnTokenReceived), plus the initial
// holder's first idle forward scheduled by NewTokenRing, ever forwards an
// unwanted token — the bus handler never does, so there is no bus-handler
// path and consumer path racing each other.
type TokenRing struct {
	self types.ProcessId
	n    int

	clock *Clock
	bus   bus.Bus
	log   types.Logger

	idleDelay time.Duration

	mutex sync.Mutex
	cond  *sync.Cond
	state CSState
	wants bool

	alive int32
}

// NewTokenRing builds the CS state machine for process self in a ring of n
// processes. Process 0 starts HAS_TOKEN; every other process starts IDLE.
// Like any holder that does not want the section, process 0 forwards the
// token after idleDelay unless RequestSC claims it first.
func NewTokenRing(self types.ProcessId, n int, clock *Clock, b bus.Bus, log types.Logger, idleDelay time.Duration) *TokenRing {
	t := &TokenRing{
		self:      self,
		n:         n,
		clock:     clock,
		bus:       b,
		log:       log,
		idleDelay: idleDelay,
		alive:     1,
	}
	t.cond = sync.NewCond(&t.mutex)
	if self == 0 {
		t.state = HasToken
		go t.forwardIfStillUnwanted()
	} else {
		t.state = Idle
	}
	return t
}

// State returns the current CS state.
func (t *TokenRing) State() CSState {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.state
}

// RequestSC blocks the calling goroutine until this process enters IN_CS,
// or returns false if the process stops while waiting. Not re-entrant:
// calling it again while already IN_CS deadlocks on the same condition —
// a programmer error, by design.
func (t *TokenRing) RequestSC() bool {
	t.mutex.Lock()
	t.wants = true
	for !(t.state == HasToken && t.wants) {
		if atomic.LoadInt32(&t.alive) == 0 {
			t.wants = false
			t.mutex.Unlock()
			t.log.Debugf("%v: %s abandoning RequestSC", types.ErrProcessStopping, t.self)
			return false
		}
		t.cond.Wait()
	}
	t.state = InCS
	t.mutex.Unlock()
	return true
}

// ReleaseSC is a no-op unless the process is currently IN_CS. Otherwise it
// clears wants and forwards the token to the successor.
func (t *TokenRing) ReleaseSC() {
	t.mutex.Lock()
	if t.state != InCS {
		t.mutex.Unlock()
		return
	}
	t.wants = false
	t.mutex.Unlock()
	t.forwardToken()
}

// OnTokenReceived runs when the token arrives via this process's mailbox.
// It updates the clock, flips state to HAS_TOKEN, and wakes any RequestSC
// waiter. If the process doesn't want the section, it schedules an
// immediate-forward after idleDelay so a quiescent ring doesn't saturate
// the bus, and so a concurrently-arriving RequestSC call gets a chance to
// claim the token first.
func (t *TokenRing) OnTokenReceived(ts int) {
	t.clock.UpdateOnReceive(ts)

	t.mutex.Lock()
	t.state = HasToken
	wants := t.wants
	t.cond.Broadcast()
	t.mutex.Unlock()

	if !wants {
		go t.forwardIfStillUnwanted()
	}
}

func (t *TokenRing) forwardIfStillUnwanted() {
	time.Sleep(t.idleDelay)
	t.mutex.Lock()
	if t.state != HasToken || t.wants {
		t.mutex.Unlock()
		return
	}
	// Leave HAS_TOKEN under the same lock as the check, so a RequestSC
	// arriving now waits for the token instead of entering IN_CS while it
	// is being forwarded.
	t.state = Idle
	t.mutex.Unlock()
	t.forwardToken()
}

// forwardToken computes the successor, ticks the clock, flips local state
// to IDLE, and publishes the TOKEN message — releasing the CS lock before
// touching the bus so a concurrent OnTokenReceived call never blocks on it.
func (t *TokenRing) forwardToken() {
	t.mutex.Lock()
	succ := types.ProcessId((int(t.self) + 1) % t.n)
	t.state = Idle
	t.mutex.Unlock()

	ts := t.clock.IncLocal()
	tok := types.NewToken(t.self, succ)
	tok.Timestamp = ts
	t.log.Debugf("%s forwarding token to %s at ts=%d", t.self, succ, ts)
	t.bus.Publish(tok)
}

// Stop unblocks any goroutine parked in RequestSC by flipping the alive
// flag and waking the condition.
func (t *TokenRing) Stop() {
	atomic.StoreInt32(&t.alive, 0)
	t.mutex.Lock()
	t.cond.Broadcast()
	t.mutex.Unlock()
}
