package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/room"
)

func get(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("no reply from hub")
		return nil
	}
}

func TestEnsureRoomIsIdempotent(t *testing.T) {
	h := NewHub(context.Background(), config.Default(), zap.NewNop())
	defer func() { h.Inbox() <- ShutdownHub{} }()

	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "AAAA", Reply: reply}
	first := <-reply

	h.Inbox() <- EnsureRoom{Code: "AAAA", Reply: reply}
	second := <-reply

	if first == nil || first != second {
		t.Fatalf("ensure returned different rooms: %p %p", first, second)
	}
	if got := get(t, h, "AAAA"); got != first {
		t.Fatalf("get returned a different room")
	}
}

func TestGetUnknownRoomIsNil(t *testing.T) {
	h := NewHub(context.Background(), config.Default(), zap.NewNop())
	defer func() { h.Inbox() <- ShutdownHub{} }()

	if got := get(t, h, "ZZZZ"); got != nil {
		t.Fatalf("expected nil for unknown code, got %p", got)
	}
}

func TestRemoveRoom(t *testing.T) {
	h := NewHub(context.Background(), config.Default(), zap.NewNop())
	defer func() { h.Inbox() <- ShutdownHub{} }()

	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "GONE", Reply: reply}
	<-reply

	h.Inbox() <- RemoveRoom{Code: "GONE"}
	if got := get(t, h, "GONE"); got != nil {
		t.Fatalf("room still registered after removal")
	}
}
