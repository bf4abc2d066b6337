// Package types holds the value types shared across the middleware:
// messages, process identifiers, sentinel errors and the Logger contract.
package types

import "fmt"

// ProcessId uniquely identifies a process for the lifetime of a session.
// Densely allocated from 0 by the id allocator in core.
type ProcessId int

// String renders the id the way the process logs name themselves,
// e.g. "P0", "P1".
func (p ProcessId) String() string {
	return fmt.Sprintf("P%d", int(p))
}
