// Package bus implements the in-process publish/subscribe fabric the
// middleware requires (spec §6.2), plus an optional networked
// implementation for deployments that need to cross a host boundary.
package bus

import "github.com/Hery-R/projet-INFO901/pkg/middleware/types"

// SubscriptionMode mirrors the bus contract's Mode parameter. Parallel is
// the only mode this module's components rely on: handlers may run
// concurrently on the bus's own delivery goroutines.
type SubscriptionMode uint8

const (
	Parallel SubscriptionMode = iota
	Sequential
)

// Handler receives a message published for a Kind it subscribed to.
type Handler func(types.Message)

// Bus is the collaborator contract from spec §6.2. Only the distributor
// (core.Distributor) ever subscribes; application processes never talk to
// the bus directly.
type Bus interface {
	// Publish delivers message to every subscriber registered for its
	// Kind. Non-blocking from the caller's perspective and safe to call
	// from any goroutine. No ordering is promised between different
	// publishers.
	Publish(message types.Message)

	// Subscribe registers handler for the given kinds. Returns a
	// subscription token that Unsubscribe accepts.
	Subscribe(mode SubscriptionMode, handler Handler, kinds ...types.Kind) Subscription

	// Unsubscribe removes a previously registered handler. A no-op if the
	// subscription was already removed.
	Unsubscribe(sub Subscription)

	// Close releases any resources the bus holds (goroutines, sockets).
	Close() error
}

// Subscription identifies a registered Handler so it can later be removed.
type Subscription uint64
