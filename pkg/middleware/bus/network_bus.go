package bus

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/jabolina/relt/pkg/relt"
	"github.com/prometheus/common/log"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// NetworkBus adapts github.com/jabolina/relt's reliable group transport to
// the Bus contract, for deployments that run one middleware per host
// instead of one per goroutine. Every message keeps its full wire shape —
// kind, timestamp, from/to and payload — JSON-encoded here since relt is
// transport-, not encoding-, opinionated.
type NetworkBus struct {
	relt *relt.Relt

	mutex  sync.Mutex
	subs   map[Subscription]registration
	nextID uint64
	closed int32

	context context.Context
	finish  context.CancelFunc
}

var _ Bus = (*NetworkBus)(nil)

// NewNetworkBus joins the named group exchange using relt's default
// configuration, overridden with the given participant name.
func NewNetworkBus(name string, exchange string) (*NetworkBus, error) {
	conf := relt.DefaultReltConfiguration()
	conf.Name = name
	conf.Exchange = relt.GroupAddress(exchange)
	r, err := relt.NewRelt(*conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &NetworkBus{
		relt:    r,
		subs:    make(map[Subscription]registration),
		context: ctx,
		finish:  cancel,
	}
	go b.poll()
	return b, nil
}

func (b *NetworkBus) Subscribe(mode SubscriptionMode, handler Handler, kinds ...types.Kind) Subscription {
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

func (b *NetworkBus) Unsubscribe(sub Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	delete(b.subs, sub)
}

func (b *NetworkBus) Publish(message types.Message) {
	if atomic.LoadInt32(&b.closed) != 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("failed marshalling message %#v. %v", message, err)
		return
	}

	send := relt.Send{Data: data}
	if err := b.relt.Broadcast(b.context, send); err != nil {
		log.Errorf("failed broadcasting message %#v. %v", message, err)
	}
}

func (b *NetworkBus) Close() error {
	atomic.StoreInt32(&b.closed, 1)
	b.finish()
	return b.relt.Close()
}

// poll reads the underlying relt consumer and dispatches to subscribers
// snapshot-first, the same deadlock-avoidance discipline LocalBus uses.
func (b *NetworkBus) poll() {
	listener, err := b.relt.Consume()
	if err != nil {
		log.Errorf("failed consuming from relt. %v", err)
		return
	}

	for {
		select {
		case <-b.context.Done():
			return
		case recv, ok := <-listener:
			if !ok {
				return
			}
			b.dispatch(recv)
		}
	}
}

func (b *NetworkBus) dispatch(recv relt.Recv) {
	if recv.Error != nil {
		log.Errorf("failed receiving from relt. %v", recv.Error)
		return
	}

	var message types.Message
	if err := json.Unmarshal(recv.Data, &message); err != nil {
		log.Errorf("failed unmarshalling message %#v. %v", recv, err)
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
