package types

import "errors"

// Sentinel errors per the error handling design. Local errors (the first
// two) are recovered by the caller; TokenLoss is a programmer error the
// implementation asserts on rather than recovers from.
var (
	// ErrUnknownDestination is returned internally when a Directed message
	// targets a process id that is not registered with the distributor.
	// The distributor itself does not return this error to a caller (it
	// has none to return it to); it logs a warning and drops the message.
	ErrUnknownDestination = errors.New("middleware: unknown destination process")

	// ErrProcessStopping marks why RequestSC returned false: the caller was
	// still blocked waiting for the token when Shutdown flipped the
	// process's alive flag. RequestSC reports this case as a plain bool
	// rather than an error so callers can write `if !m.RequestSC() { return }`
	// without an import; the sentinel exists for log lines that need to name
	// the condition.
	ErrProcessStopping = errors.New("middleware: process stopping")

	// ErrTokenLoss marks the fatal, unrecoverable case where the token-ring
	// successor is not registered with the distributor. This is a design
	// error: the ring's membership must match the distributor's table.
	ErrTokenLoss = errors.New("middleware: token lost, successor not registered")

	// ErrBarrierMisuse is returned by NewBarrier when constructed with a
	// non-positive participant count, failing fast instead of building a
	// barrier that could never release.
	ErrBarrierMisuse = errors.New("middleware: barrier requires at least one participant")
)
