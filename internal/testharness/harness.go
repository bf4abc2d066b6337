// Package testharness provides the cluster-construction helpers the
// scenario tests under test/ and fuzzy/ build on. Grounded on
// test/testing.go's UnityCluster/CreateCluster/WaitThisOrTimeout shape,
// rebound from a cluster of mcast.Unity replicas to a group of
// middleware.Middleware processes sharing one middleware.Group.
package testharness

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/pkg/middleware"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/core"
)

// Cluster is a group of Middleware instances sharing one Group, built fresh
// for a single test.
type Cluster struct {
	T     *testing.T
	Group *middleware.Group
	Procs []*middleware.Middleware
}

// NewCluster resets the package-wide id allocator and constructs size
// processes sharing a single in-process bus, distributor and barrier. opts
// apply identically to every process.
func NewCluster(t *testing.T, size int, opts ...middleware.Option) *Cluster {
	core.ResetAllocator()
	group, err := middleware.NewGroup(size, nil, nil)
	if err != nil {
		t.Fatalf("failed constructing group of size %d: %v", size, err)
	}

	procs := make([]*middleware.Middleware, size)
	for i := 0; i < size; i++ {
		m, err := group.NewProcess(opts...)
		if err != nil {
			t.Fatalf("failed constructing process %d: %v", i, err)
		}
		procs[i] = m
	}
	return &Cluster{T: t, Group: group, Procs: procs}
}

// Shutdown stops every process concurrently, then tears down the shared
// group. Safe to defer right after NewCluster.
func (c *Cluster) Shutdown() {
	var wg sync.WaitGroup
	for _, m := range c.Procs {
		wg.Add(1)
		go func(m *middleware.Middleware) {
			defer wg.Done()
			m.Shutdown()
		}(m)
	}
	wg.Wait()
	c.Group.Shutdown()
}

// PrintStackTrace dumps every goroutine's stack to the test log, used when
// a WaitThisOrTimeout call times out and the cause is a stuck goroutine.
func PrintStackTrace(t *testing.T) {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	t.Errorf("%s", buf[:n])
}

// WaitThisOrTimeout runs cb in a goroutine and reports whether it completed
// before duration elapsed.
func WaitThisOrTimeout(cb func(), duration time.Duration) bool {
	done := make(chan struct{})
	go func() {
		cb()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(duration):
		return false
	}
}
