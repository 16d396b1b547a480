package room

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/game"
	"github.com/flickrumble/backend/internal/types"
)

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	r := New(context.Background(), "TEST", config.Default(), zap.NewNop(), nil)
	t.Cleanup(func() {
		select {
		case r.inbox <- Shutdown{}:
		default:
		}
	})
	return r
}

func join(t *testing.T, r *Room, id, name string) chan types.ServerMessage {
	t.Helper()
	out := make(chan types.ServerMessage, 64)
	r.Inbox() <- Join{ClientID: id, Name: name, Outbox: out}

	select {
	case first := <-out:
		if first.Type != "snapshot" {
			t.Fatalf("first message: got %q, want snapshot", first.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot after join")
	}
	return out
}

func probe(t *testing.T, r *Room) View {
	t.Helper()
	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(time.Second):
		t.Fatalf("no state reply")
		return View{}
	}
}

func TestJoinMakesFirstClientHost(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice", "Alice")
	join(t, r, "bob", "Bob")

	v := probe(t, r)
	if v.NumClients != 2 {
		t.Fatalf("clients: got %d", v.NumClients)
	}
	if v.HostID != "alice" {
		t.Fatalf("host: got %q", v.HostID)
	}
	if v.GameActive {
		t.Fatalf("no game should be running yet")
	}
}

func TestStartRequiresEveryoneReady(t *testing.T) {
	r := newTestRoom(t)
	aliceOut := join(t, r, "alice", "Alice")
	join(t, r, "bob", "Bob")

	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "ready", Ready: true}}
	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "start"}}

	if v := probe(t, r); v.GameActive {
		t.Fatalf("game started with an unready player")
	}
	// The host got the one user-visible rejection.
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-aliceOut:
			if msg.Type == "error" {
				if msg.Error != "everyone must be ready" {
					t.Fatalf("error: got %q", msg.Error)
				}
				return
			}
		case <-deadline:
			t.Fatalf("no rejection delivered to host")
		}
	}
}

func TestStartAndTurnGate(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice", "Alice")
	join(t, r, "bob", "Bob")

	for _, id := range []string{"alice", "bob"} {
		r.Inbox() <- FromClient{ClientID: id, Msg: types.ClientMessage{Type: "ready", Ready: true}}
	}
	// Non-host start is ignored.
	r.Inbox() <- FromClient{ClientID: "bob", Msg: types.ClientMessage{Type: "start"}}
	if v := probe(t, r); v.GameActive {
		t.Fatalf("non-host was allowed to start")
	}

	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "start"}}
	v := probe(t, r)
	if !v.GameActive {
		t.Fatalf("host start ignored")
	}
	if v.ActiveID != "alice" {
		t.Fatalf("active: got %q", v.ActiveID)
	}

	// Off-turn act is rejected, not queued: the turn state stays aim.
	r.Inbox() <- FromClient{ClientID: "bob", Msg: types.ClientMessage{Type: "act", VX: 300, VY: 0}}
	if v := probe(t, r); v.TurnState != game.TurnAim {
		t.Fatalf("off-turn act mutated state: %v", v.TurnState)
	}

	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "act", VX: 300, VY: 0}}
	if v := probe(t, r); v.TurnState != game.TurnResolving {
		t.Fatalf("active act ignored: %v", v.TurnState)
	}
}

func TestLeaveHandsOffGameAndHost(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice", "Alice")
	join(t, r, "bob", "Bob")
	for _, id := range []string{"alice", "bob"} {
		r.Inbox() <- FromClient{ClientID: id, Msg: types.ClientMessage{Type: "ready", Ready: true}}
	}
	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "start"}}

	r.Inbox() <- Leave{ClientID: "alice"}
	v := probe(t, r)
	if v.HostID != "bob" {
		t.Fatalf("host not handed off: %q", v.HostID)
	}
	if !v.GameActive {
		t.Fatalf("game should survive one player remaining")
	}
	if v.ActiveID != "bob" {
		t.Fatalf("dangling active id: %q", v.ActiveID)
	}
}

func TestSlowClientLosesSeatAndTurnSlot(t *testing.T) {
	r := newTestRoom(t)

	// A consumer that takes its join snapshot and then never drains again:
	// the broadcast ticker fills the small buffer and evicts it.
	stuck := make(chan types.ServerMessage, 4)
	r.Inbox() <- Join{ClientID: "alice", Name: "Alice", Outbox: stuck}
	join(t, r, "bob", "Bob")

	for _, id := range []string{"alice", "bob"} {
		r.Inbox() <- FromClient{ClientID: id, Msg: types.ClientMessage{Type: "ready", Ready: true}}
	}
	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "start"}}

	deadline := time.After(2 * time.Second)
	for {
		v := probe(t, r)
		if v.NumClients == 1 {
			if len(v.Seats) != 1 || v.Seats[0].ID != "bob" {
				t.Fatalf("seat not reclaimed: %+v", v.Seats)
			}
			if !v.GameActive {
				t.Fatalf("game should survive the eviction")
			}
			if v.HostID != "bob" {
				t.Fatalf("host not handed off: %q", v.HostID)
			}
			if v.ActiveID != "bob" {
				t.Fatalf("evicted client still holds the turn: %q", v.ActiveID)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("slow client never dropped: %+v", v)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestModeSelection(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice", "Alice")
	join(t, r, "bob", "Bob")

	r.Inbox() <- FromClient{ClientID: "bob", Msg: types.ClientMessage{Type: "mode", Mode: "boss"}}
	if v := probe(t, r); v.Mode != game.ModeRace {
		t.Fatalf("non-host changed mode")
	}

	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "mode", Mode: "boss"}}
	if v := probe(t, r); v.Mode != game.ModeBoss {
		t.Fatalf("host mode change ignored")
	}

	r.Inbox() <- FromClient{ClientID: "alice", Msg: types.ClientMessage{Type: "mode", Mode: "nonsense"}}
	if v := probe(t, r); v.Mode != game.ModeBoss {
		t.Fatalf("invalid mode accepted")
	}
}
