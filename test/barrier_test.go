package test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
	"github.com/Hery-R/projet-INFO901/pkg/middleware"
)

// Three rounds of a three-process barrier must produce nine returns total,
// and every participant must return from round k before any of them returns
// from round k+1 — the generation counter is what makes this hold instead
// of a plain counting barrier.
func Test_BarrierRoundTripAcrossThreeRounds(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	const rounds = 3
	var (
		totalReturns int32
		roundSeen    [rounds]int32
		overlapped   int32
	)

	run := func(m *middleware.Middleware) {
		for round := 0; round < rounds; round++ {
			m.Synchronize()
			if round > 0 && atomic.LoadInt32(&roundSeen[round-1]) != int32(len(cluster.Procs)) {
				atomic.StoreInt32(&overlapped, 1)
			}
			atomic.AddInt32(&totalReturns, 1)
			atomic.AddInt32(&roundSeen[round], 1)
		}
	}

	done := make(chan struct{}, len(cluster.Procs))
	for _, m := range cluster.Procs {
		go func(m *middleware.Middleware) {
			run(m)
			done <- struct{}{}
		}(m)
	}

	deadline := time.After(15 * time.Second)
	for i := 0; i < len(cluster.Procs); i++ {
		select {
		case <-done:
		case <-deadline:
			t.Fatal("not every process completed all barrier rounds in time")
		}
	}

	if got := atomic.LoadInt32(&totalReturns); got != int32(len(cluster.Procs)*rounds) {
		t.Fatalf("expected %d total returns, got %d", len(cluster.Procs)*rounds, got)
	}
	for round, count := range roundSeen {
		if int(count) != len(cluster.Procs) {
			t.Fatalf("round %d: expected %d returns, got %d", round, len(cluster.Procs), count)
		}
	}
	if atomic.LoadInt32(&overlapped) != 0 {
		t.Fatal("a process returned from a round before every process had returned from the previous one")
	}
}
