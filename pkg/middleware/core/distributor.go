package core

import (
	"sync"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/bus"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// Distributor is the single subscriber fanning bus events out to the
// correct mailboxes, keyed by a register/unregister table of known
// processes and dispatched per message kind.
type Distributor struct {
	log types.Logger
	bus bus.Bus
	sub bus.Subscription

	mutex     sync.Mutex
	mailboxes map[types.ProcessId]*Mailbox
}

// NewDistributor subscribes to b for every message kind the protocol uses
// and returns a Distributor ready to register mailboxes.
func NewDistributor(b bus.Bus, log types.Logger) *Distributor {
	d := &Distributor{
		log:       log,
		bus:       b,
		mailboxes: make(map[types.ProcessId]*Mailbox),
	}
	d.sub = b.Subscribe(bus.Parallel, d.dispatch, types.Broadcast, types.Directed, types.Token)
	return d
}

// Register atomically adds a mailbox to the table, making its owner a
// valid fan-out target.
func (d *Distributor) Register(mb *Mailbox) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.mailboxes[mb.Owner()] = mb
}

// Unregister removes a mailbox from the table.
func (d *Distributor) Unregister(id types.ProcessId) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.mailboxes, id)
}

// Close unsubscribes the distributor from the bus.
func (d *Distributor) Close() {
	d.bus.Unsubscribe(d.sub)
}

// dispatch runs on the bus's delivery goroutine. It snapshots the mailbox
// table before depositing so it never holds the table lock while calling
// Mailbox.Deposit — a waiter woken by Deposit could in principle call back
// into the distributor (e.g. to forward a token), and holding the lock
// across that call would deadlock.
func (d *Distributor) dispatch(m types.Message) {
	switch m.Kind {
	case types.Broadcast:
		for _, mb := range d.snapshot() {
			mb.Deposit(m)
		}
	case types.Directed:
		if mb, ok := d.lookup(m.To); ok {
			mb.Deposit(m)
		} else {
			d.log.Warnf("%v: dropping directed message to %s", types.ErrUnknownDestination, m.To)
		}
	case types.Token:
		if mb, ok := d.lookup(m.To); ok {
			mb.Deposit(m)
		} else {
			// Token loss is a design error, not a recoverable condition:
			// the ring's membership must match the distributor's table.
			d.log.Errorf("token lost: successor %s not registered", m.To)
			panic(types.ErrTokenLoss)
		}
	default:
		d.log.Warnf("distributor ignoring message of unknown kind %v", m.Kind)
	}
}

func (d *Distributor) snapshot() []*Mailbox {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]*Mailbox, 0, len(d.mailboxes))
	for _, mb := range d.mailboxes {
		out = append(out, mb)
	}
	return out
}

func (d *Distributor) lookup(id types.ProcessId) (*Mailbox, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	mb, ok := d.mailboxes[id]
	return mb, ok
}
