package room

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/engine"
)

// ErrRoomClosed answers a Join that reached a room after its loop exited.
var ErrRoomClosed = errors.New("room closed")

type Msg interface{ isRoomMsg() }

// FromClient carries one decoded player action into the room.
type FromClient struct {
	Ev engine.Event
}

func (FromClient) isRoomMsg() {}

type Join struct {
	PlayerID string
	Name     string
	Outbox   chan Snapshot // where this connection wants to receive snapshots
	Reply    chan JoinResult
}

func (Join) isRoomMsg() {}

type Leave struct{ PlayerID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// tick is the room's own deadline signal, scheduled via ScheduleTick effects.
type tick struct{ gen int }

func (tick) isRoomMsg() {}

type Snapshot struct {
	Version     int
	State       engine.State
	Result      string
	Message     string
	Replenished bool
}

type JoinResult struct {
	PlayerID string
	IsHost   bool
	State    engine.State
	Err      error
}

// View is a test-only reflection of internal state without data races.
type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// GameRecorder receives final scores when a game ends. Implementations must
// tolerate being called from a short-lived goroutine.
type GameRecorder interface {
	RecordGame(ctx context.Context, winner string, points map[string]int) error
}

type Options struct {
	// TickInterval is the real-time length of one deadline unit. Zero means
	// no timers are armed; tests drive ticks through the inbox instead.
	TickInterval time.Duration
	Logger       *zap.Logger
	Stats        GameRecorder
	// OnEmpty is called once, after the loop exits, when the last player
	// leaves.
	OnEmpty func(code string)
}

// Room runs one game session as a single-goroutine actor: every player
// action, timer tick and teardown request goes through the inbox, so no two
// events ever touch the state concurrently.
type Room struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	timer   *time.Timer
	tickDur time.Duration
	log     *zap.Logger
	stats   GameRecorder
	onEmpty func(code string)
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, code string, rules engine.Rules, opts Options) *Room {
	ctx, cancel := context.WithCancel(parent)
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(rules),
		clients: make(map[string]chan Snapshot),
		tickDur: opts.TickInterval,
		log:     log,
		stats:   opts.Stats,
		onEmpty: opts.OnEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

// Done is closed once the room's loop has exited. Callers waiting on a reply
// from the room must select on it as well, or they can block forever.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

// Closed reports whether the room has shut down.
func (r *Room) Closed() bool {
	select {
	case <-r.ctx.Done():
		return true
	default:
		return false
	}
}

// Send delivers m unless the room has already shut down. A false return means
// the message was dropped; senders treat that as the room being gone.
func (r *Room) Send(m Msg) bool {
	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			r.drainInbox()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				next, effects, err := engine.Apply(r.state, engine.Join{PlayerID: msg.PlayerID, Name: msg.Name})
				if err != nil {
					// Duplicate connection ID: no-op join.
					if msg.Reply != nil {
						msg.Reply <- JoinResult{Err: err}
					}
					break
				}
				r.state = next
				if msg.Outbox != nil {
					r.clients[msg.PlayerID] = msg.Outbox
				}
				if msg.Reply != nil {
					res := JoinResult{PlayerID: msg.PlayerID, State: next.Clone()}
					if i := indexOf(next, msg.PlayerID); i >= 0 {
						res.IsHost = next.Players[i].IsHost
					}
					msg.Reply <- res
				}
				r.run(effects)

			case Leave:
				next, effects, err := engine.Apply(r.state, engine.Leave{PlayerID: msg.PlayerID})
				if err != nil {
					break // late message for a player already gone
				}
				r.state = next
				if ch, ok := r.clients[msg.PlayerID]; ok {
					close(ch)
					delete(r.clients, msg.PlayerID)
				}
				if len(next.Players) == 0 {
					r.log.Info("room empty, tearing down", zap.String("room", r.code))
					r.shutdown()
					if r.onEmpty != nil {
						r.onEmpty(r.code)
					}
					r.drainInbox()
					return
				}
				r.run(effects)

			case FromClient:
				next, effects, err := engine.Apply(r.state, msg.Ev)
				if err != nil {
					// Illegal actions are silent no-ops toward the client.
					r.log.Debug("ignored action", zap.String("room", r.code), zap.Error(err))
					break
				}
				r.state = next
				r.run(effects)

			case tick:
				next, effects, err := engine.Apply(r.state, engine.Tick{Generation: msg.gen})
				if err != nil {
					break // stale timer from a superseded window
				}
				r.state = next
				r.run(effects)

			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state.Clone(),
				}

			case Shutdown:
				r.shutdown()
				r.drainInbox()
				return
			}
		}
	}
}

func (r *Room) run(effects []engine.Effect) {
	for _, e := range effects {
		switch eff := e.(type) {
		case engine.Broadcast:
			r.version++
			r.broadcast(Snapshot{
				Version:     r.version,
				State:       r.state.Clone(),
				Result:      eff.Result,
				Message:     eff.Message,
				Replenished: eff.Replenished,
			})

		case engine.ScheduleTick:
			r.armTick(eff.Generation)

		case engine.GameEnded:
			r.log.Info("game over",
				zap.String("room", r.code),
				zap.String("winner", eff.Winner))
			if r.stats != nil {
				go func(winner string, points map[string]int) {
					if err := r.stats.RecordGame(context.Background(), winner, points); err != nil {
						r.log.Warn("leaderboard update failed", zap.Error(err))
					}
				}(eff.Winner, eff.Points)
			}
		}
	}
}

// armTick replaces any pending tick. The generation travels with the timer
// so a fire that lands after the window changed is dropped in the engine.
func (r *Room) armTick(gen int) {
	if r.timer != nil {
		r.timer.Stop()
	}
	if r.tickDur <= 0 {
		return
	}
	r.timer = time.AfterFunc(r.tickDur, func() {
		select {
		case r.inbox <- tick{gen: gen}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) broadcast(snap Snapshot) {
	for id, ch := range r.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) shutdown() {
	if r.timer != nil {
		r.timer.Stop()
	}
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

// drainInbox answers whatever was queued behind the message that tore the
// room down, so no caller is left waiting on a loop that no longer runs.
// Anything sent after the drain finishes is caught by the sender selecting
// on Done.
func (r *Room) drainInbox() {
	for {
		select {
		case m := <-r.inbox:
			j, ok := m.(Join)
			if !ok {
				continue
			}
			if j.Reply != nil {
				j.Reply <- JoinResult{Err: ErrRoomClosed}
			}
			if j.Outbox != nil {
				close(j.Outbox)
			}
		default:
			return
		}
	}
}

func indexOf(s engine.State, id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}
