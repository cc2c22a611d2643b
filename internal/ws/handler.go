package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/registry"
	"github.com/lowcard/lowcard-backend/internal/room"
	"github.com/lowcard/lowcard-backend/internal/types"
)

const (
	joinTimeout  = 30 * time.Second
	readTimeout  = 10 * time.Minute // players legitimately idle between phases
	writeTimeout = 3 * time.Second
)

func Handler(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The first message must be a join; everything about this
		// connection is scoped to one room afterwards.
		ctx, cancel := context.WithTimeout(r.Context(), joinTimeout)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			return
		}

		var jm types.ClientMessage
		if err := json.Unmarshal(data, &jm); err != nil || jm.Type != "join" {
			writeError(r.Context(), conn, "expected a join message")
			return
		}
		if jm.RoomID == "" {
			writeError(r.Context(), conn, "room name required")
			return
		}
		if jm.PlayerName == "" {
			writeError(r.Context(), conn, "player name required")
			return
		}

		reply := make(chan *room.Room, 1)
		reg.Inbox() <- registry.EnsureRoom{Code: jm.RoomID, Reply: reply}
		rm := <-reply
		if rm == nil {
			writeError(r.Context(), conn, "room unavailable")
			return
		}

		playerID := uuid.NewString()
		out := make(chan room.Snapshot, 8)
		joined := make(chan room.JoinResult, 1)
		if !rm.Send(room.Join{PlayerID: playerID, Name: jm.PlayerName, Outbox: out, Reply: joined}) {
			writeError(r.Context(), conn, "room unavailable")
			return
		}
		var res room.JoinResult
		select {
		case res = <-joined:
		case <-rm.Done():
			// The room tore down between the registry handing it out and our
			// join being processed. One last look in case the reply raced in.
			select {
			case res = <-joined:
			default:
				writeError(r.Context(), conn, "room unavailable")
				return
			}
		}
		if res.Err != nil {
			writeError(r.Context(), conn, "join rejected")
			return
		}
		defer func() { rm.Send(room.Leave{PlayerID: playerID}) }()

		log.Info("player joined",
			zap.String("room", jm.RoomID),
			zap.String("player", jm.PlayerName),
			zap.String("id", playerID))

		ack := types.ServerMessage{Type: "joined", Joined: &types.Joined{
			RoomID:   jm.RoomID,
			PlayerID: playerID,
			Players:  roster(res.State),
			IsHost:   res.IsHost,
		}}
		if err := write(r.Context(), conn, ack); err != nil {
			return
		}

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "state-update", State: toStateUpdate(snap)}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = write(ctx, conn, msg)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Clean close or not, the deferred Leave handles the rest.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				continue // bad input after join is a silent no-op
			}
			ev, ok := toEvent(playerID, cm)
			if !ok {
				continue
			}
			if !rm.Send(room.FromClient{Ev: ev}) {
				return
			}
		}
	}
}

func toEvent(playerID string, m types.ClientMessage) (engine.Event, bool) {
	switch m.Type {
	case "start":
		return engine.Start{PlayerID: playerID}, true
	case "pick-shown":
		return engine.PickShown{PlayerID: playerID, Card: m.Card}, true
	case "pick-final":
		return engine.PickFinal{PlayerID: playerID, Card: m.Card}, true
	default:
		return nil, false
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func writeError(ctx context.Context, conn *websocket.Conn, text string) {
	_ = write(ctx, conn, types.ServerMessage{Type: "error", Error: text})
}
