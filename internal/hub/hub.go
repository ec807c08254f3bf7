package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/lobby"
	"github.com/jtladams423-replit/degen-gm/internal/store"
)

type HubMsg interface{ isHubMsg() }

type Created struct {
	Lobby   *lobby.Lobby
	Session draft.Session
	Err     error
}

// CreateLobby allocates a fresh session in the store and starts its lobby.
type CreateLobby struct {
	Reply chan Created
}

// GetLobby returns the running lobby for Code, starting one from the store
// when the session exists but has no lobby yet. Replies nil for unknown codes.
type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox     chan HubMsg
	lobbies   map[string]*lobby.Lobby
	store     store.Store
	lobbyOpts lobby.Options
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewHub starts the hub. lobbyOpts is handed to every lobby; its Store is
// always the hub's store.
func NewHub(parent context.Context, st store.Store, lobbyOpts lobby.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	logger := lobbyOpts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lobbyOpts.Store = st
	lobbyOpts.Logger = logger

	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		lobbies:   make(map[string]*lobby.Lobby),
		store:     st,
		lobbyOpts: lobbyOpts,
		log:       logger.With(zap.String("component", "hub")),
		ctx:       ctx,
		cancel:    cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				s, err := h.store.CreateSession(h.ctx)
				if err != nil {
					msg.Reply <- Created{Err: err}
					break
				}
				lb := lobby.NewLobby(h.ctx, s, h.lobbyOpts)
				h.lobbies[s.Code] = lb
				h.log.Info("session created", zap.String("code", s.Code))
				msg.Reply <- Created{Lobby: lb, Session: s}

			case GetLobby:
				code := store.NormalizeCode(msg.Code)
				if lb := h.lobbies[code]; lb != nil {
					msg.Reply <- lb
					break
				}
				s, err := h.store.GetSessionByCode(h.ctx, code)
				if err != nil {
					if !errors.Is(err, store.ErrNotFound) {
						h.log.Error("load session", zap.String("code", code), zap.Error(err))
					}
					msg.Reply <- nil
					break
				}
				lb := lobby.NewLobby(h.ctx, s, h.lobbyOpts)
				h.lobbies[code] = lb
				msg.Reply <- lb

			case RemoveLobby:
				code := store.NormalizeCode(msg.Code)
				if lb := h.lobbies[code]; lb != nil {
					lb.Send(lobby.Shutdown{})
					delete(h.lobbies, code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		lb.Send(lobby.Shutdown{})
	}
	clear(h.lobbies)
	h.cancel()
}

// send hands m to the hub unless it has shut down.
func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return h.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Create is the synchronous form of CreateLobby.
func (h *Hub) Create(ctx context.Context) (*lobby.Lobby, draft.Session, error) {
	reply := make(chan Created, 1)
	if err := h.send(ctx, CreateLobby{Reply: reply}); err != nil {
		return nil, draft.Session{}, err
	}
	select {
	case c := <-reply:
		return c.Lobby, c.Session, c.Err
	case <-h.ctx.Done():
		return nil, draft.Session{}, h.ctx.Err()
	case <-ctx.Done():
		return nil, draft.Session{}, ctx.Err()
	}
}

// Get is the synchronous form of GetLobby; nil means no such session.
func (h *Hub) Get(ctx context.Context, code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, GetLobby{Code: code, Reply: reply}); err != nil {
		return nil
	}
	select {
	case lb := <-reply:
		return lb
	case <-h.ctx.Done():
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Session reads a session through the store, the same path lobbies write to.
func (h *Hub) Session(ctx context.Context, code string) (draft.Session, error) {
	return h.store.GetSessionByCode(ctx, code)
}
