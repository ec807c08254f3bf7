package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jtladams423-replit/degen-gm/internal/engine"
	"github.com/jtladams423-replit/degen-gm/internal/hub"
	"github.com/jtladams423-replit/degen-gm/internal/lobby"
	"github.com/jtladams423-replit/degen-gm/internal/types"
)

type Options struct {
	Logger *zap.Logger
	// OutboxSize bounds the messages queued for one connection. When it is
	// full, lobbies drop further messages for that connection.
	OutboxSize     int
	OriginPatterns []string
	WriteTimeout   time.Duration
}

// registration is one successful join; a connection may hold several.
type registration struct {
	lobby *lobby.Lobby
	id    string
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "ws"))
	if opts.OutboxSize <= 0 {
		opts.OutboxSize = 16
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Debug("accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Never closed: lobbies may still hold it after we return.
		out := make(chan types.ServerMessage, opts.OutboxSize)

		// Writer goroutine
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-out:
					payload, err := json.Marshal(msg)
					if err != nil {
						logger.Error("encode message", zap.String("type", msg.Type), zap.Error(err))
						continue
					}
					wctx, wcancel := context.WithTimeout(ctx, opts.WriteTimeout)
					err = conn.Write(wctx, websocket.MessageText, payload)
					wcancel()
					if err != nil {
						cancel()
						return
					}
				}
			}
		}()

		var (
			regs    []registration
			current *lobby.Lobby
		)
		defer func() {
			for _, reg := range regs {
				reg.lobby.Send(lobby.Leave{ClientID: reg.id})
			}
		}()

		reply := func(msg types.ServerMessage) {
			select {
			case out <- msg:
			default:
				logger.Warn("dropping reply for slow client", zap.String("type", msg.Type))
			}
		}

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					logger.Debug("read", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				logger.Info("malformed message", zap.Error(err))
				continue
			}

			switch cm.Type {
			case types.MsgJoin:
				lb := h.Get(ctx, cm.Code)
				if lb == nil {
					reply(types.ServerMessage{Type: types.MsgError, Message: "Session not found"})
					continue
				}
				id := uuid.NewString()
				if !lb.Send(lobby.Join{ClientID: id, Outbox: out}) {
					reply(types.ServerMessage{Type: types.MsgError, Message: "Session not found"})
					continue
				}
				regs = append(regs, registration{lobby: lb, id: id})
				current = lb

			case types.MsgAutoPick:
				if current == nil {
					continue
				}
				current.Send(lobby.AutoPick{})

			default:
				cmd, ok := toEngineCommand(cm)
				if !ok {
					logger.Info("unknown message type", zap.String("type", cm.Type))
					continue
				}
				// Commands before a join have no session to act on.
				if current == nil {
					continue
				}
				current.Send(lobby.FromClient{Cmd: cmd})
			}
		}
	}
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case types.MsgPick:
		return engine.Command{Type: engine.CmdPick, Pick: m.Pick}, true
	case types.MsgSimPick:
		return engine.Command{Type: engine.CmdSimPick, Pick: m.Pick}, true
	case types.MsgStartDraft:
		return engine.Command{
			Type:               engine.CmdStartDraft,
			TeamControllers:    m.TeamControllers,
			Rounds:             m.Rounds,
			SlotsPerRound:      m.SlotsPerRound,
			AvailablePlayerIDs: m.AvailablePlayerIDs,
			Trades:             m.Trades,
		}, true
	case types.MsgResetDraft:
		return engine.Command{Type: engine.CmdResetDraft}, true
	default:
		return engine.Command{}, false
	}
}
