package test

import (
	"sync"
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
	"github.com/Hery-R/projet-INFO901/pkg/middleware"
)

// sendToSync/recvFromSync together form a synchronous rendezvous: the
// sender's SendToSync and the receiver's RecvFromSync both return only
// once the barrier they share has released for that round.
func Test_SynchronousSendAndReceive(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	sender, receiver, bystander := cluster.Procs[0], cluster.Procs[1], cluster.Procs[2]

	var wg sync.WaitGroup
	var received string
	var ok bool

	wg.Add(3)
	go func() {
		defer wg.Done()
		sender.SendToSync("ping", receiver.Id())
	}()
	go func() {
		defer wg.Done()
		received, ok = receiver.RecvFromSync(sender.Id())
	}()
	go func() {
		defer wg.Done()
		bystander.Synchronize()
	}()

	if !testharness.WaitThisOrTimeout(wg.Wait, 5*time.Second) {
		t.Fatal("synchronous send/receive did not complete in time")
	}
	if !ok {
		t.Fatal("receiver did not get the directed message")
	}
	if received != "ping" {
		t.Fatalf("receiver got %q, expected %q", received, "ping")
	}
}

// broadcastSync must have every participant (sender included) return from
// the same barrier round, with non-sender participants observing the
// broadcast payload before they return.
func Test_BroadcastSyncReleasesWholeGroup(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	sender := cluster.Procs[0]
	var wg sync.WaitGroup
	wg.Add(len(cluster.Procs))
	for _, m := range cluster.Procs {
		go func(m *middleware.Middleware) {
			defer wg.Done()
			m.BroadcastSync("announcement", sender.Id())
		}(m)
	}

	if !testharness.WaitThisOrTimeout(wg.Wait, 5*time.Second) {
		t.Fatal("broadcastSync did not release every participant in time")
	}
}
