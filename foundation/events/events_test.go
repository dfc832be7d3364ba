package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to stream events to many receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")

		if again := evts.Acquire("one"); again != ch1 || evts.Len() != 2 {
			t.Fatalf("\t%s\tShould reuse the channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould reuse the channel for the same id.", success)

		evts.Send("block mined")

		if msg := <-ch1; msg != "block mined" {
			t.Fatalf("\t%s\tShould deliver to the first receiver: %q", failed, msg)
		}
		if msg := <-ch2; msg != "block mined" {
			t.Fatalf("\t%s\tShould deliver to the second receiver: %q", failed, msg)
		}
		t.Logf("\t%s\tShould deliver to every receiver.", success)

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a receiver: %v", failed, err)
		}
		if _, open := <-ch1; open {
			t.Fatalf("\t%s\tShould close the released channel.", failed)
		}
		if err := evts.Release("one"); err == nil {
			t.Fatalf("\t%s\tShould not release a receiver twice.", failed)
		}
		t.Logf("\t%s\tShould release a receiver once.", success)

		blocks := evts.Acquire("blocks", "viewer: block:")
		if n := evts.Send("state: MineNextBlock: started"); n != 1 {
			t.Fatalf("\t%s\tShould skip a filtered receiver: delivered %d", failed, n)
		}
		<-ch2
		if n := evts.Send("viewer: block: {}"); n != 2 {
			t.Fatalf("\t%s\tShould deliver a matching message: delivered %d", failed, n)
		}
		if msg := <-blocks; msg != "viewer: block: {}" {
			t.Fatalf("\t%s\tShould deliver only block messages: %q", failed, msg)
		}
		<-ch2
		t.Logf("\t%s\tShould deliver only the messages a receiver asked for.", success)

		for i := 0; i < 500; i++ {
			evts.Send("flood")
		}
		t.Logf("\t%s\tShould not block when a receiver falls behind.", success)

		evts.Shutdown()
		if evts.Len() != 0 {
			t.Fatalf("\t%s\tShould remove every receiver on shutdown.", failed)
		}
		t.Logf("\t%s\tShould remove every receiver on shutdown.", success)

		if _, open := <-evts.Acquire("late"); open {
			t.Fatalf("\t%s\tShould get a closed channel after shutdown.", failed)
		}
		t.Logf("\t%s\tShould get a closed channel after shutdown.", success)
	}
}
