package test

import (
	"testing"
	"time"

	"github.com/Hery-R/projet-INFO901/internal/testharness"
	"github.com/Hery-R/projet-INFO901/pkg/middleware"
)

// A process configured with WithLogrusLogger behaves identically to the
// stdlib default: the logger swap is cosmetic, not a change in protocol
// behavior.
func Test_LogrusLoggerProcessParticipatesNormally(t *testing.T) {
	cluster := testharness.NewCluster(t, 2, middleware.WithLogrusLogger("broadcast-test"))
	defer func() {
		if !testharness.WaitThisOrTimeout(cluster.Shutdown, 10*time.Second) {
			t.Error("cluster failed to shut down")
		}
	}()

	cluster.Procs[0].Broadcast("hi")

	timeout := 2 * time.Second
	payload, ok := cluster.Procs[1].WaitForMessage(&timeout)
	if !ok {
		t.Fatal("process 1 never received the broadcast")
	}
	if payload != "hi" {
		t.Fatalf("got %q, expected %q", payload, "hi")
	}
}
