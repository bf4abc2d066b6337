package bus

import (
	"sync"
	"sync/atomic"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// registration pairs a Handler with the kinds it cares about.
type registration struct {
	id      Subscription
	mode    SubscriptionMode
	handler Handler
	kinds   map[types.Kind]struct{}
}

// LocalBus is the default, in-process Bus every middleware instance in a
// session shares. Publish takes a snapshot of the subscriber table before
// fanning out, the way the distributor itself snapshots the mailbox table
// before depositing (spec §3 "Distributor table"): a handler that mutates
// subscriptions mid-dispatch (e.g. unsubscribing itself) never deadlocks
// against the table lock and never observes a torn iteration.
type LocalBus struct {
	mutex   sync.Mutex
	subs    map[Subscription]registration
	nextID  uint64
	closed  int32
}

var _ Bus = (*LocalBus)(nil)

// NewLocalBus builds an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[Subscription]registration)}
}

func (b *LocalBus) Subscribe(mode SubscriptionMode, handler Handler, kinds ...types.Kind) Subscription {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := Subscription(atomic.AddUint64(&b.nextID, 1))
	set := make(map[types.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	b.subs[id] = registration{id: id, mode: mode, handler: handler, kinds: set}
	return id
}

func (b *LocalBus) Unsubscribe(sub Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	delete(b.subs, sub)
}

// Publish snapshots the subscriber list and fans the message out to every
// registration whose kind set matches. Parallel-mode handlers run on their
// own goroutine; sequential-mode handlers run inline on the snapshot loop.
func (b *LocalBus) Publish(message types.Message) {
	if atomic.LoadInt32(&b.closed) != 0 {
		return
	}

	b.mutex.Lock()
	snapshot := make([]registration, 0, len(b.subs))
	for _, r := range b.subs {
		if _, ok := r.kinds[message.Kind]; ok {
			snapshot = append(snapshot, r)
		}
	}
	b.mutex.Unlock()

	for _, r := range snapshot {
		if r.mode == Sequential {
			r.handler(message)
		} else {
			go r.handler(message)
		}
	}
}

func (b *LocalBus) Close() error {
	atomic.StoreInt32(&b.closed, 1)
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.subs = make(map[Subscription]registration)
	return nil
}
