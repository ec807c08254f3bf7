package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/engine"
	"github.com/jtladams423-replit/degen-gm/internal/store"
	"github.com/jtladams423-replit/degen-gm/internal/types"
)

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isLobbyMsg() {}

// AutoPick asks the lobby to make a simulated pick for the CPU team on the clock.
type AutoPick struct{}

func (AutoPick) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan<- types.ServerMessage // where this client wants to receive messages
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	NumClients int
	Session    draft.Session
}

// Picker chooses the next simulated pick for a session, reporting false
// when the team on the clock should not be auto-picked.
type Picker interface {
	NextPick(s draft.Session) (draft.Pick, bool)
}

// roundLimiter is a Picker whose pick order only covers so many rounds.
type roundLimiter interface {
	Rounds() int
}

type Options struct {
	// Store receives every committed mutation. Nil keeps the lobby in memory only.
	Store         store.Store
	Picker        Picker
	Logger        *zap.Logger
	SlotsPerRound int
}

// Lobby owns one session. Every message for the session goes through a
// single goroutine, so mutations are applied strictly in arrival order.
type Lobby struct {
	code    string
	inbox   chan Msg
	session draft.Session
	clients map[string]chan<- types.ServerMessage
	opts    Options
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, initial draft.Session, opts Options) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Lobby{
		code:    initial.Code,
		inbox:   make(chan Msg, 64), // Small buffer
		session: initial.Clone(),
		clients: make(map[string]chan<- types.ServerMessage),
		opts:    opts,
		log:     logger.With(zap.String("component", "lobby"), zap.String("code", initial.Code)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client, hand it the current state, then tell everyone the new count.
				l.clients[msg.ClientID] = msg.Outbox
				session := l.session.Clone()
				l.send(msg.ClientID, msg.Outbox, types.ServerMessage{
					Type:    types.MsgSessionState,
					Session: &session,
					Clients: len(l.clients),
				})
				l.broadcast(types.ServerMessage{Type: types.MsgClientCount, Clients: len(l.clients)})

			case Leave:
				if _, ok := l.clients[msg.ClientID]; !ok {
					break
				}
				delete(l.clients, msg.ClientID)
				if len(l.clients) > 0 {
					l.broadcast(types.ServerMessage{Type: types.MsgClientCount, Clients: len(l.clients)})
				}

			case FromClient:
				l.apply(msg.Cmd)

			case AutoPick:
				if l.opts.Picker == nil {
					break
				}
				pick, ok := l.opts.Picker.NextPick(l.session.Clone())
				if !ok {
					l.log.Info("auto pick declined",
						zap.String("status", string(l.session.Status)),
						zap.Int("pick_index", l.session.CurrentPickIndex),
						zap.Int("total_slots", engine.TotalSlots(l.session)),
					)
					break
				}
				l.apply(engine.Command{Type: engine.CmdSimPick, Pick: &pick})

			case GetState:
				msg.Reply <- View{
					NumClients: len(l.clients),
					Session:    l.session.Clone(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// apply runs cmd through the engine, persists the result and broadcasts it.
// Rejected commands are dropped without a reply.
func (l *Lobby) apply(cmd engine.Command) {
	if cmd.Type == engine.CmdStartDraft {
		if cmd.SlotsPerRound <= 0 {
			cmd.SlotsPerRound = l.opts.SlotsPerRound
		}
		// Past the picker's last round there is nothing to auto-pick, and the
		// draft would never complete.
		if rl, ok := l.opts.Picker.(roundLimiter); ok && rl.Rounds() > 0 && cmd.Rounds > rl.Rounds() {
			l.log.Warn("rounds clamped to pick order", zap.Int("requested", cmd.Rounds), zap.Int("rounds", rl.Rounds()))
			cmd.Rounds = rl.Rounds()
		}
	}

	events, next, err := engine.Apply(l.session, cmd)
	if err != nil {
		if errors.Is(err, engine.ErrSessionNotActive) {
			l.log.Debug("command ignored", zap.String("cmd", string(cmd.Type)), zap.String("status", string(l.session.Status)))
		} else {
			l.log.Warn("command rejected", zap.String("cmd", string(cmd.Type)), zap.Error(err))
		}
		return
	}

	if l.opts.Store != nil {
		saved, err := l.opts.Store.UpdateSession(l.ctx, l.session.Code, store.FullUpdate(next))
		if err != nil {
			l.log.Error("persist session", zap.String("cmd", string(cmd.Type)), zap.Error(err))
			return
		}
		next = saved
	}
	l.session = next

	if engine.ContainsEvent(events, engine.EvtDraftCompleted) {
		l.log.Info("draft completed", zap.Int("picks", len(next.Picks)))
	}

	session := l.session.Clone()
	switch events[0].Type {
	case engine.EvtDraftStarted:
		l.broadcast(types.ServerMessage{Type: types.MsgDraftStarted, Session: &session})
	case engine.EvtPickMade:
		l.broadcast(types.ServerMessage{Type: types.MsgPickMade, Pick: events[0].Pick, Session: &session})
	case engine.EvtDraftReset:
		l.broadcast(types.ServerMessage{Type: types.MsgDraftReset, Session: &session})
	}
}

func (l *Lobby) shutdown() {
	// Outboxes belong to the connections; just forget them.
	clear(l.clients)
	l.cancel()
}

func (l *Lobby) broadcast(msg types.ServerMessage) {
	for id, ch := range l.clients {
		l.send(id, ch, msg)
	}
}

// send never blocks: a full outbox loses this message, not the whole lobby.
func (l *Lobby) send(id string, ch chan<- types.ServerMessage, msg types.ServerMessage) {
	select {
	case ch <- msg:
	default:
		l.log.Warn("dropping message for slow client", zap.String("client", id), zap.String("type", msg.Type))
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Send delivers m unless the lobby has shut down.
func (l *Lobby) Send(m Msg) bool {
	select {
	case l.inbox <- m:
		return true
	case <-l.ctx.Done():
		return false
	}
}

func (l *Lobby) Code() string { return l.code }
