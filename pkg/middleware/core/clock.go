package core

import "sync"

// Clock is a per-process scalar Lamport clock: a mutex-guarded counter that
// advances on every local send event and merges with the sender's
// timestamp on every receive.
//
// The clock advances on receive-consumption, not on bus delivery — callers
// tick it from the façade's GetMessage/WaitForMessage path, never from the
// distributor.
type Clock struct {
	mutex sync.Mutex
	value int
}

// NewClock builds a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// IncLocal advances the clock for a local event (used before publishing
// any message) and returns the new value. Strictly greater than the
// previous IncLocal/UpdateOnReceive result.
func (c *Clock) IncLocal() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.value++
	return c.value
}

// UpdateOnReceive applies the Lamport receive rule: value = max(value, ts) + 1.
// Returns the clock's value before the update and the new value; both the
// new value and ts satisfy new > old and new > ts.
func (c *Clock) UpdateOnReceive(ts int) (old, updated int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	old = c.value
	if ts > c.value {
		c.value = ts
	}
	c.value++
	return old, c.value
}

// Value returns the current clock value without advancing it.
func (c *Clock) Value() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.value
}
