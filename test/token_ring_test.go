package test

import (
	"sync"
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
	"github.com/Hery-R/projet-INFO901/pkg/middleware"
)

// With only P2 requesting the critical section, the token must travel to
// it: P0 starts HAS_TOKEN and forwards it after the idle delay, P1 does not
// want it and passes it on, and P2 enters.
func Test_TokenCirculatesWithoutContention(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
			testharness.PrintStackTrace(t)
		}
	}()

	p2 := cluster.Procs[2]
	if !testharness.WaitThisOrTimeout(func() {
		if !p2.RequestSC() {
			t.Error("P2 failed to acquire the critical section")
		}
		p2.ReleaseSC()
	}, 5*time.Second) {
		testharness.PrintStackTrace(t)
		t.Fatal("token never reached P2: ring did not circulate")
	}
}

// A single acquirer with no contention must enter immediately: P0 starts
// holding the token.
func Test_SingleAcquirerEntersImmediately(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	p0 := cluster.Procs[0]
	entered := testharness.WaitThisOrTimeout(func() {
		if !p0.RequestSC() {
			t.Error("P0 failed to acquire the critical section")
		}
	}, time.Second)
	if !entered {
		t.Fatal("P0 should enter the critical section without waiting for the token to travel")
	}
	p0.ReleaseSC()
}

// Under contention, exactly one process is ever inside the critical section
// at a time, and every requester eventually gets in.
func Test_ContentionPreservesMutualExclusion(t *testing.T) {
	const n = 4
	cluster := testharness.NewCluster(t, n)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 15*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	var (
		mutex    sync.Mutex
		inside   int
		violated bool
		wg       sync.WaitGroup
	)

	for _, m := range cluster.Procs {
		wg.Add(1)
		go func(m *middleware.Middleware) {
			defer wg.Done()
			if !m.RequestSC() {
				return
			}
			mutex.Lock()
			inside++
			if inside > 1 {
				violated = true
			}
			mutex.Unlock()

			time.Sleep(5 * time.Millisecond)

			mutex.Lock()
			inside--
			mutex.Unlock()
			m.ReleaseSC()
		}(m)
	}

	if !testharness.WaitThisOrTimeout(wg.Wait, 15*time.Second) {
		t.Fatal("not every process entered the critical section in time")
	}
	if violated {
		t.Fatal("more than one process was inside the critical section at once")
	}
}
