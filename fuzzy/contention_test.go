package fuzzy

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
	"github.com/Hery-R/projet-INFO901/pkg/middleware"
	"go.uber.org/goleak"
)

// Hammers the token ring with every process repeatedly requesting and
// releasing the critical section, with no injected delay between rounds.
// No failure is injected here — this only checks that a long sequence of
// contention never violates mutual exclusion and that every goroutine the
// middleware spawns is gone once the cluster shuts down.
func Test_TokenRingUnderSustainedContention(t *testing.T) {
	defer goleak.VerifyNone(t)

	const (
		processes = 5
		rounds    = 50
	)

	cluster := testharness.NewCluster(t, processes)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 30*time.Second) {
			t.Fatal("cluster failed to shut down")
		}
	}()

	var (
		mutex    sync.Mutex
		inside   int32
		violated int32
		wg       sync.WaitGroup
	)

	work := func(m *middleware.Middleware) {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if !m.RequestSC() {
				return
			}

			mutex.Lock()
			inside++
			if inside > 1 {
				atomic.StoreInt32(&violated, 1)
			}
			mutex.Unlock()

			mutex.Lock()
			inside--
			mutex.Unlock()

			m.ReleaseSC()
		}
	}

	wg.Add(processes)
	for _, m := range cluster.Procs {
		go work(m)
	}

	if !testharness.WaitThisOrTimeout(wg.Wait, 30*time.Second) {
		testharness.PrintStackTrace(t)
		t.Fatal("not every process finished its rounds in time")
	}
	if atomic.LoadInt32(&violated) != 0 {
		t.Fatal("mutual exclusion was violated under sustained contention")
	}
}
