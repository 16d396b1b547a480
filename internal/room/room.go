package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/game"
	"github.com/flickrumble/backend/internal/geom"
	"github.com/flickrumble/backend/internal/types"
)

type Msg interface{ isRoomMsg() }

type Join struct {
	ClientID string
	Name     string
	Outbox   chan types.ServerMessage
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type FromClient struct {
	ClientID string
	Msg      types.ClientMessage
}

func (FromClient) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState lets tests observe the actor without data races.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type View struct {
	NumClients int
	HostID     string
	Mode       game.Mode
	GameActive bool
	ActiveID   string
	Phase      game.Phase
	TurnState  game.TurnState
	Seats      []types.Seat
}

type seat struct {
	name  string
	char  string
	ready bool
}

// Room owns one arena: its client set, the pre-game lobby seats, and at most
// one running Game. Everything is mutated by the single loop goroutine, which
// also drives the fixed-rate simulation ticker; message handling and ticking
// can never overlap.
type Room struct {
	code    string
	cfg     config.Config
	log     *zap.Logger
	inbox   chan Msg
	clients map[string]chan types.ServerMessage
	seats   map[string]*seat
	order   []string // join order; first joiner is host
	mode    game.Mode
	game    *game.Game
	onEmpty func(code string)
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, code string, cfg config.Config, log *zap.Logger, onEmpty func(code string)) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:    code,
		cfg:     cfg,
		log:     log.With(zap.String("room", code)),
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan types.ServerMessage),
		seats:   make(map[string]*seat),
		mode:    game.ModeRace,
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	tick := time.NewTicker(time.Second / time.Duration(r.cfg.TickRate))
	cast := time.NewTicker(time.Second / time.Duration(r.cfg.SnapshotRate))
	defer tick.Stop()
	defer cast.Stop()

	last := time.Now()
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			if done := r.handle(m); done {
				return
			}

		case now := <-tick.C:
			// Elapsed wall clock, clamped so a stalled loop cannot take one
			// huge catch-up step and tunnel entities through walls.
			dt := now.Sub(last)
			last = now
			if dt > r.cfg.MaxTickSlice {
				dt = r.cfg.MaxTickSlice
			}
			if r.game != nil {
				r.game.Step(dt.Seconds())
			}

		case <-cast.C:
			r.broadcast()
		}
	}
}

func (r *Room) handle(m Msg) (done bool) {
	switch msg := m.(type) {
	case Join:
		r.clients[msg.ClientID] = msg.Outbox
		if _, ok := r.seats[msg.ClientID]; !ok {
			r.seats[msg.ClientID] = &seat{name: msg.Name, char: game.Characters[0].ID}
			r.order = append(r.order, msg.ClientID)
		}
		r.log.Info("client joined", zap.String("client", msg.ClientID))
		msg.Outbox <- r.snapshotMsg()

	case Leave:
		r.dropClient(msg.ClientID)
		if len(r.clients) == 0 {
			r.log.Info("room empty, tearing down")
			r.shutdown()
			return true
		}

	case FromClient:
		r.apply(msg.ClientID, msg.Msg)

	case GetState:
		msg.Reply <- View{
			NumClients: len(r.clients),
			HostID:     r.hostID(),
			Mode:       r.mode,
			GameActive: r.game != nil,
			ActiveID:   r.activeID(),
			Phase:      r.phase(),
			TurnState:  r.turnState(),
			Seats:      r.seatViews(),
		}

	case Shutdown:
		r.shutdown()
		return true
	}
	return false
}

// apply is the validation gate: wrong sender, wrong turn, or wrong phase
// means the message is dropped, never queued.
func (r *Room) apply(clientID string, m types.ClientMessage) {
	switch m.Type {
	case "act":
		if r.game == nil {
			return
		}
		if err := r.game.Flick(clientID, geom.Vec2{X: m.VX, Y: m.VY}); err != nil {
			r.log.Debug("act rejected", zap.String("client", clientID), zap.Error(err))
		}
	case "dash":
		if r.game == nil {
			return
		}
		if err := r.game.Dash(clientID); err != nil {
			r.log.Debug("dash rejected", zap.String("client", clientID), zap.Error(err))
		}

	case "pick":
		if s := r.seats[clientID]; s != nil && r.game == nil {
			s.char = game.CharacterByID(m.Char).ID
		}
	case "ready":
		if s := r.seats[clientID]; s != nil && r.game == nil {
			s.ready = m.Ready
		}

	case "mode":
		if clientID != r.hostID() || r.game != nil {
			return
		}
		switch game.Mode(m.Mode) {
		case game.ModeRace, game.ModeBoss:
			r.mode = game.Mode(m.Mode)
		}
	case "start":
		if clientID != r.hostID() || r.game != nil {
			return
		}
		for _, id := range r.order {
			if s := r.seats[id]; s != nil && !s.ready {
				r.sendTo(clientID, types.ServerMessage{Type: "error", Error: "everyone must be ready"})
				return
			}
		}
		seeds := make([]game.PlayerSeed, 0, len(r.order))
		for _, id := range r.order {
			s := r.seats[id]
			seeds = append(seeds, game.PlayerSeed{ID: id, Name: s.name, CharID: s.char})
		}
		g, err := game.New(r.cfg, r.mode, seeds)
		if err != nil {
			r.sendTo(clientID, types.ServerMessage{Type: "error", Error: err.Error()})
			return
		}
		r.game = g
		r.log.Info("game started", zap.String("mode", string(r.mode)), zap.Int("players", len(seeds)))

	case "reset":
		if clientID != r.hostID() {
			return
		}
		r.game = nil
		for _, s := range r.seats {
			s.ready = false
		}
		r.log.Info("room reset to lobby")
	case "reload_stage":
		if clientID == r.hostID() && r.game != nil {
			r.game.ReloadStage()
		}
	case "reset_positions":
		if clientID == r.hostID() && r.game != nil {
			r.game.ResetPositions()
		}
	}
}

func (r *Room) dropClient(id string) {
	if ch, ok := r.clients[id]; ok {
		close(ch)
		delete(r.clients, id)
	}
	delete(r.seats, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.game != nil {
		if !r.game.RemovePlayer(id) {
			r.game = nil
			r.log.Info("last player left, game torn down")
		}
	}
	r.log.Info("client left", zap.String("client", id))
}

func (r *Room) broadcast() {
	msg := r.snapshotMsg()
	var slow []string
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			slow = append(slow, id)
		}
	}
	// A slow consumer loses its seat and turn-order slot, not just the outbox;
	// otherwise it could keep acting while never seeing another snapshot.
	for _, id := range slow {
		r.log.Warn("dropping slow client", zap.String("client", id))
		r.dropClient(id)
	}
}

func (r *Room) snapshotMsg() types.ServerMessage {
	msg := types.ServerMessage{
		Type: "snapshot",
		Room: &types.RoomView{
			Code:   r.code,
			HostID: r.hostID(),
			Mode:   string(r.mode),
			Seats:  r.seatViews(),
		},
	}
	if r.game != nil {
		snap := r.game.BuildSnapshot()
		msg.Game = &snap
	}
	return msg
}

func (r *Room) sendTo(id string, msg types.ServerMessage) {
	if ch, ok := r.clients[id]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (r *Room) seatViews() []types.Seat {
	out := make([]types.Seat, 0, len(r.order))
	for _, id := range r.order {
		if s := r.seats[id]; s != nil {
			out = append(out, types.Seat{ID: id, Name: s.name, Char: s.char, Ready: s.ready})
		}
	}
	return out
}

func (r *Room) hostID() string {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

func (r *Room) activeID() string {
	if r.game == nil {
		return ""
	}
	return r.game.ActiveID()
}

func (r *Room) phase() game.Phase {
	if r.game == nil {
		return ""
	}
	return r.game.Phase
}

func (r *Room) turnState() game.TurnState {
	if r.game == nil {
		return ""
	}
	return r.game.TurnState
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
	if r.onEmpty != nil {
		r.onEmpty(r.code)
	}
}
