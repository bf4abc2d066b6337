// Package middleware is the façade binding the logical clock, mailbox,
// distributor, token ring and barrier into the single API an application
// process drives.
package middleware

import (
	"sync/atomic"
	"time"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/bus"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/core"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// Group is the process-wide coordinator a session's launcher constructs
// once: it owns the shared bus, the single Distributor subscribed to it,
// and the reusable Barrier sized for the group. Every Middleware in a
// session is built through the same Group, sharing one distributor and one
// barrier across all of them.
type Group struct {
	bus         bus.Bus
	distributor *core.Distributor
	barrier     *core.Barrier
	total       int
	log         types.Logger
}

// NewGroup builds a Group for a session of `total` processes. If b is nil a
// fresh in-process LocalBus is used; pass a *bus.NetworkBus to cross a host
// boundary. log defaults to definition.NewDefaultLogger() if nil. Returns an
// error if total is not positive.
func NewGroup(total int, b bus.Bus, log types.Logger) (*Group, error) {
	if b == nil {
		b = bus.NewLocalBus()
	}
	if log == nil {
		log = DefaultConfig().Logger
	}
	barrier, err := core.NewBarrier(total)
	if err != nil {
		return nil, err
	}
	return &Group{
		bus:         b,
		distributor: core.NewDistributor(b, log),
		barrier:     barrier,
		total:       total,
		log:         log,
	}, nil
}

// Total returns the number of processes this group's barrier and token ring
// are sized for.
func (g *Group) Total() int {
	return g.total
}

// Shutdown unsubscribes the distributor and closes the underlying bus.
// Every Middleware built from this Group should itself be shut down first.
func (g *Group) Shutdown() {
	g.log.Debugf("shutting down group of %d processes", g.total)
	g.distributor.Close()
	_ = g.bus.Close()
}

// NewProcess allocates the next ProcessId from the shared id allocator and
// constructs a Middleware participating in this Group. opts override the
// defaults from DefaultConfig.
func (g *Group) NewProcess(opts ...Option) (*Middleware, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	id := core.Allocator().NextID()
	name := cfg.Name
	if name == "" {
		name = id.String()
	}

	raw := core.NewMailbox(id)
	g.distributor.Register(raw)

	clock := core.NewClock()
	tokenRing := core.NewTokenRing(id, g.total, clock, g.bus, cfg.Logger, cfg.TokenIdleDelay)
	appMailbox := core.NewMailbox(id)

	m := &Middleware{
		id:         id,
		name:       name,
		group:      g,
		log:        cfg.Logger,
		clock:      clock,
		rawMailbox: raw,
		appMailbox: appMailbox,
		tokenRing:  tokenRing,
		sync: &core.SyncPrimitives{
			Self:    id,
			Bus:     g.bus,
			Clock:   clock,
			Mailbox: appMailbox,
			Barrier: g.barrier,
		},
		alive:    1,
		pollDone: make(chan struct{}),
	}
	go m.poll()
	return m, nil
}

// Middleware is the per-process handle an application drives.
type Middleware struct {
	id    types.ProcessId
	name  string
	group *Group
	log   types.Logger

	clock      *core.Clock
	rawMailbox *core.Mailbox
	appMailbox *core.Mailbox
	tokenRing  *core.TokenRing
	sync       *core.SyncPrimitives

	alive    int32
	pollDone chan struct{}
}

// Id returns this process's allocated identifier.
func (m *Middleware) Id() types.ProcessId {
	return m.id
}

// Name returns this process's display name.
func (m *Middleware) Name() string {
	return m.name
}

// NbProcess returns the total number of processes in this process's group.
func (m *Middleware) NbProcess() int {
	return m.group.Total()
}

// GetClock returns the current value of this process's logical clock
// without advancing it.
func (m *Middleware) GetClock() int {
	return m.clock.Value()
}

// Broadcast ticks the clock and publishes payload to every process in the
// group, including the sender.
func (m *Middleware) Broadcast(payload string) {
	ts := m.clock.IncLocal()
	msg := types.NewBroadcast(m.id, payload)
	msg.Timestamp = ts
	m.group.bus.Publish(msg)
}

// SendTo ticks the clock and publishes payload addressed to dest.
func (m *Middleware) SendTo(payload string, dest types.ProcessId) {
	ts := m.clock.IncLocal()
	msg := types.NewDirected(m.id, dest, payload)
	msg.Timestamp = ts
	m.group.bus.Publish(msg)
}

// HasMessages reports whether an application message is available without
// consuming it.
func (m *Middleware) HasMessages() bool {
	return m.appMailbox.HasAny()
}

// GetMessage dequeues one application message if available, merging the
// clock at the point of consumption: the receive event is the
// application's own pull, not the bus delivery.
func (m *Middleware) GetMessage() (string, bool) {
	msg, ok := m.appMailbox.TryGet()
	if !ok {
		return "", false
	}
	m.clock.UpdateOnReceive(msg.Timestamp)
	return msg.Payload, true
}

// WaitForMessage blocks until an application message is available or
// timeout elapses (nil blocks indefinitely), merging the clock on receipt.
func (m *Middleware) WaitForMessage(timeout *time.Duration) (string, bool) {
	msg, ok := m.appMailbox.WaitGet(timeout)
	if !ok {
		return "", false
	}
	m.clock.UpdateOnReceive(msg.Timestamp)
	return msg.Payload, true
}

// RequestSC blocks until this process enters the critical section, or
// returns false if Shutdown is called while waiting.
func (m *Middleware) RequestSC() bool {
	return m.tokenRing.RequestSC()
}

// ReleaseSC leaves the critical section and forwards the token.
func (m *Middleware) ReleaseSC() {
	m.tokenRing.ReleaseSC()
}

// Synchronize blocks until every process in the group has called it for the
// current round.
func (m *Middleware) Synchronize() {
	m.group.barrier.Synchronize()
}

// BroadcastSync runs the group-wide broadcast-then-barrier rendezvous;
// every process must call it with the same senderID.
func (m *Middleware) BroadcastSync(payload string, senderID types.ProcessId) {
	m.sync.BroadcastSync(payload, senderID)
}

// SendToSync sends payload to dest and then synchronizes with the group.
func (m *Middleware) SendToSync(payload string, dest types.ProcessId) {
	m.sync.SendToSync(payload, dest)
}

// RecvFromSync waits for a Directed message from senderID, merges the
// clock, synchronizes with the group, and returns the payload.
func (m *Middleware) RecvFromSync(senderID types.ProcessId) (string, bool) {
	return m.sync.RecvFromSync(senderID)
}

// Shutdown stops this process's background poll loop, unblocks any pending
// RequestSC/WaitForMessage call, and unregisters its mailbox from the
// group's distributor. Idempotent.
func (m *Middleware) Shutdown() {
	if !atomic.CompareAndSwapInt32(&m.alive, 1, 0) {
		return
	}
	m.log.Debugf("%s shutting down", m.name)
	m.tokenRing.Stop()
	m.rawMailbox.Close()
	<-m.pollDone
	m.appMailbox.Close()
	m.group.distributor.Unregister(m.id)
}

// poll drains the raw mailbox the distributor deposits into, intercepting
// Token messages for the token ring and forwarding everything else to the
// application-visible mailbox. This two-mailbox split exists so Token
// messages never leak into GetMessage/WaitForMessage: the distributor
// treats every kind uniformly, but the application only ever sees
// Broadcast and Directed traffic.
func (m *Middleware) poll() {
	defer close(m.pollDone)
	for {
		msg, ok := m.rawMailbox.WaitGet(nil)
		if !ok {
			if atomic.LoadInt32(&m.alive) == 0 {
				return
			}
			continue
		}
		switch msg.Kind {
		case types.Token:
			m.tokenRing.OnTokenReceived(msg.Timestamp)
		default:
			m.appMailbox.Deposit(msg)
		}
	}
}
