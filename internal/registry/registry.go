package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/room"
)

type Msg interface{ isRegistryMsg() }

// EnsureRoom creates the room on first join to an unknown id.
type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownRegistry struct{}

func (EnsureRoom) isRegistryMsg()       {}
func (GetRoom) isRegistryMsg()          {}
func (RemoveRoom) isRegistryMsg()       {}
func (ShutdownRegistry) isRegistryMsg() {}

// Registry owns the room table. Like the rooms themselves it is an actor:
// all table mutations run on one goroutine.
type Registry struct {
	inbox  chan Msg
	rooms  map[string]*room.Room
	rules  engine.Rules
	tick   time.Duration
	log    *zap.Logger
	stats  room.GameRecorder
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, rules engine.Rules, tick time.Duration, log *zap.Logger, stats room.GameRecorder) *Registry {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		inbox:  make(chan Msg, 64),
		rooms:  make(map[string]*room.Room),
		rules:  rules,
		tick:   tick,
		log:    log,
		stats:  stats,
		ctx:    ctx,
		cancel: cancel,
	}
	go r.loop()
	return r
}

func (r *Registry) Inbox() chan<- Msg { return r.inbox }

func (r *Registry) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				// A room that emptied out may still be in the table while its
				// RemoveRoom is in flight; hand out a fresh one instead.
				if rm := r.rooms[msg.Code]; rm != nil && !rm.Closed() {
					msg.Reply <- rm
					break
				}
				rm := room.New(r.ctx, msg.Code, r.rules, room.Options{
					TickInterval: r.tick,
					Logger:       r.log,
					Stats:        r.stats,
					OnEmpty:      r.notifyEmpty,
				})
				r.rooms[msg.Code] = rm
				r.log.Info("room created", zap.String("room", msg.Code))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- r.rooms[msg.Code] // may be nil

			case RemoveRoom:
				delete(r.rooms, msg.Code)

			case ShutdownRegistry:
				for _, rm := range r.rooms {
					// Best effort; rooms also watch the shared context.
					select {
					case rm.Inbox() <- room.Shutdown{}:
					default:
					}
				}
				clear(r.rooms)
				r.cancel()
			}
		}
	}
}

// notifyEmpty runs on a room's goroutine after its loop has exited.
func (r *Registry) notifyEmpty(code string) {
	select {
	case r.inbox <- RemoveRoom{Code: code}:
	case <-r.ctx.Done():
	}
}
