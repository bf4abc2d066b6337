package test

import (
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
)

// A broadcast is delivered to the sender as well as to every other process,
// and consuming it merges the receiver's clock strictly past the stamped
// send timestamp.
func Test_BroadcastDeliversToSenderAndAdvancesClock(t *testing.T) {
	cluster := testharness.NewCluster(t, 3)
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	sender := cluster.Procs[0]
	// Broadcast stamps the message with at least before+1.
	sentAt := sender.GetClock() + 1
	sender.Broadcast("hello")

	timeout := 2 * time.Second
	for i, m := range cluster.Procs {
		payload, ok := m.WaitForMessage(&timeout)
		if !ok {
			t.Fatalf("process %d never received the broadcast", i)
		}
		if payload != "hello" {
			t.Fatalf("process %d received %q, expected %q", i, payload, "hello")
		}
		if m.GetClock() <= sentAt {
			t.Fatalf("process %d's clock did not advance past the send timestamp: sent at >= %d, after=%d", i, sentAt, m.GetClock())
		}
	}
}
