package core

import (
	"sync"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// idAllocator is the process-wide singleton handing out consecutive
// ProcessId values.
type idAllocator struct {
	mutex    sync.Mutex
	counter  int
	assigned []types.ProcessId
}

var (
	allocatorOnce sync.Once
	allocator     *idAllocator
)

// Allocator returns the process-wide id allocator singleton, constructing
// it lazily on first use. Production call sites should call Allocator()
// once during session setup rather than relying on the lazy init; the lazy
// init exists so tests can call ResetAllocator between scenarios without
// any explicit bootstrap step.
func Allocator() *idAllocator {
	allocatorOnce.Do(func() {
		allocator = &idAllocator{}
	})
	return allocator
}

// NextID returns the next unused ProcessId and records it as assigned.
func (a *idAllocator) NextID() types.ProcessId {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	id := types.ProcessId(a.counter)
	a.counter++
	a.assigned = append(a.assigned, id)
	return id
}

// AssignedCount returns how many ids have been handed out so far. Useful
// when a group's total participant count is not known up front.
func (a *idAllocator) AssignedCount() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.assigned)
}

// AssignedIDs returns a read-only snapshot of every id handed out so far,
// in allocation order.
func (a *idAllocator) AssignedIDs() []types.ProcessId {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	out := make([]types.ProcessId, len(a.assigned))
	copy(out, a.assigned)
	return out
}

// Reset returns the counter to 0 and clears the assigned list. Used only
// between test scenarios.
func (a *idAllocator) Reset() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.counter = 0
	a.assigned = nil
}

// ResetAllocator resets the package-level singleton. Test-only helper.
func ResetAllocator() {
	Allocator().Reset()
}
