package lobby

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/engine"
	"github.com/jtladams423-replit/degen-gm/internal/store"
	"github.com/jtladams423-replit/degen-gm/internal/types"
)

// helper: receive one message with a timeout so tests never hang
func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{} // unreachable
	}
}

func recvType(t *testing.T, ch <-chan types.ServerMessage, want string) types.ServerMessage {
	t.Helper()
	msg := recvMsg(t, ch, 500*time.Millisecond)
	if msg.Type != want {
		t.Fatalf("want %s, got %s (%+v)", want, msg.Type, msg)
	}
	return msg
}

func recvNoMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("expected no message within %v, but got: %+v", within, msg)
	case <-time.After(within):
		// good: nothing
	}
}

func recvView(t *testing.T, l *Lobby) View {
	t.Helper()
	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

// join registers a client and drains its session_state and client_count.
func join(t *testing.T, l *Lobby, id string, buf int) chan types.ServerMessage {
	t.Helper()
	out := make(chan types.ServerMessage, buf)
	l.Inbox() <- Join{ClientID: id, Outbox: out}
	recvType(t, out, types.MsgSessionState)
	recvType(t, out, types.MsgClientCount)
	return out
}

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	return ids
}

func startCmd(rounds, slots, players int) FromClient {
	return FromClient{Cmd: engine.Command{
		Type:               engine.CmdStartDraft,
		Rounds:             rounds,
		SlotsPerRound:      slots,
		AvailablePlayerIDs: playerIDs(players),
		TeamControllers:    map[string]draft.Controller{"NYG": {Type: draft.ControllerCPU, Name: "CPU"}},
	}}
}

func pickCmd(typ engine.CommandType, overall int, id string) FromClient {
	return FromClient{Cmd: engine.Command{Type: typ, Pick: &draft.Pick{
		Round: 1, Pick: overall, Overall: overall, Team: "NYG", Player: draft.Player{ID: id},
	}}}
}

func newTestLobby(t *testing.T, opts Options) (*Lobby, store.Store) {
	t.Helper()
	st := store.NewMemory()
	s, err := st.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if opts.Store == nil {
		opts.Store = st
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewLobby(ctx, s, opts), st
}

func TestLobby_JoinSendsStateThenCount(t *testing.T) {
	l, _ := newTestLobby(t, Options{})

	out := make(chan types.ServerMessage, 4)
	l.Inbox() <- Join{ClientID: "c1", Outbox: out}

	state := recvType(t, out, types.MsgSessionState)
	if state.Session == nil || state.Session.Status != draft.StatusWaiting || state.Clients != 1 {
		t.Fatalf("unexpected session_state %+v", state)
	}
	count := recvType(t, out, types.MsgClientCount)
	if count.Clients != 1 {
		t.Fatalf("want 1 client, got %d", count.Clients)
	}

	join(t, l, "c2", 4)
	if got := recvType(t, out, types.MsgClientCount); got.Clients != 2 {
		t.Fatalf("existing client should see 2, got %d", got.Clients)
	}
}

func TestLobby_FullDraftLifecycle(t *testing.T) {
	l, st := newTestLobby(t, Options{})
	out := join(t, l, "c1", 64)

	l.Inbox() <- startCmd(1, 32, 100)
	started := recvType(t, out, types.MsgDraftStarted)
	if started.Session.Status != draft.StatusActive || len(started.Session.AvailablePlayerIDs) != 100 {
		t.Fatalf("unexpected started session %+v", started.Session)
	}

	var last types.ServerMessage
	for i := 0; i < 32; i++ {
		l.Inbox() <- pickCmd(engine.CmdSimPick, i+1, fmt.Sprintf("p%d", i))
		last = recvType(t, out, types.MsgPickMade)
		if last.Pick == nil || last.Pick.Overall != i+1 {
			t.Fatalf("pick %d: unexpected pick %+v", i, last.Pick)
		}
	}

	if last.Session.Status != draft.StatusCompleted {
		t.Fatalf("want completed, got %s", last.Session.Status)
	}
	if len(last.Session.Picks) != 32 || len(last.Session.AvailablePlayerIDs) != 68 {
		t.Fatalf("want 32 picks / 68 available, got %d / %d", len(last.Session.Picks), len(last.Session.AvailablePlayerIDs))
	}

	saved, err := st.GetSessionByCode(context.Background(), l.Code())
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if saved.Status != draft.StatusCompleted || len(saved.Picks) != 32 {
		t.Fatalf("store not updated: %s %d", saved.Status, len(saved.Picks))
	}

	// Completed drafts ignore further picks.
	l.Inbox() <- pickCmd(engine.CmdPick, 33, "p40")
	recvNoMsg(t, out, 100*time.Millisecond)
}

func TestLobby_PickWhileWaitingIsSilentNoop(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	out := join(t, l, "c1", 4)
	before := recvView(t, l)

	l.Inbox() <- pickCmd(engine.CmdPick, 1, "p0")
	l.Inbox() <- pickCmd(engine.CmdSimPick, 1, "p0")
	recvNoMsg(t, out, 100*time.Millisecond)

	after := recvView(t, l)
	if after.Session.CurrentPickIndex != before.Session.CurrentPickIndex || len(after.Session.Picks) != 0 || after.Session.Status != draft.StatusWaiting {
		t.Fatalf("session mutated by pick in waiting: %+v", after.Session)
	}
}

func TestLobby_ResetOnWaitingStillBroadcasts(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	out := join(t, l, "c1", 4)

	l.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdResetDraft}}
	reset := recvType(t, out, types.MsgDraftReset)
	s := reset.Session
	if s.Status != draft.StatusWaiting || s.CurrentPickIndex != 0 || len(s.Picks) != 0 || len(s.AvailablePlayerIDs) != 0 {
		t.Fatalf("unexpected reset session %+v", s)
	}
}

func TestLobby_ResetThenRestart(t *testing.T) {
	l, _ := newTestLobby(t, Options{SlotsPerRound: 2})
	out := join(t, l, "c1", 16)

	l.Inbox() <- startCmd(1, 0, 10)
	started := recvType(t, out, types.MsgDraftStarted)
	if started.Session.SlotsPerRound != 2 {
		t.Fatalf("lobby default slots per round not applied: %d", started.Session.SlotsPerRound)
	}
	l.Inbox() <- pickCmd(engine.CmdPick, 1, "p0")
	recvType(t, out, types.MsgPickMade)

	l.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdResetDraft}}
	recvType(t, out, types.MsgDraftReset)

	l.Inbox() <- startCmd(1, 0, 10)
	restarted := recvType(t, out, types.MsgDraftStarted)
	if len(restarted.Session.Picks) != 0 || restarted.Session.CurrentPickIndex != 0 {
		t.Fatalf("restart kept old picks: %+v", restarted.Session)
	}
}

func TestLobby_SlowClientDoesNotBlockOthers(t *testing.T) {
	l, _ := newTestLobby(t, Options{})

	slow := make(chan types.ServerMessage, 2)
	l.Inbox() <- Join{ClientID: "slow", Outbox: slow} // fills both slots
	fast := join(t, l, "fast", 16)

	l.Inbox() <- startCmd(1, 32, 10)
	recvType(t, fast, types.MsgDraftStarted)

	view := recvView(t, l)
	if view.NumClients != 2 {
		t.Fatalf("slow client should stay registered; NumClients=%d", view.NumClients)
	}
}

func TestLobby_LeaveBroadcastsCount(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	a := join(t, l, "a", 8)
	b := join(t, l, "b", 8)
	recvType(t, a, types.MsgClientCount) // b joined

	l.Inbox() <- Leave{ClientID: "b"}
	if got := recvType(t, a, types.MsgClientCount); got.Clients != 1 {
		t.Fatalf("want 1 client after leave, got %d", got.Clients)
	}
	recvNoMsg(t, b, 100*time.Millisecond)

	// Unknown ids are ignored.
	l.Inbox() <- Leave{ClientID: "ghost"}
	recvNoMsg(t, a, 100*time.Millisecond)
}

func TestLobby_RepeatedJoinDeliversPerRegistration(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	out := make(chan types.ServerMessage, 16)

	l.Inbox() <- Join{ClientID: "r1", Outbox: out}
	l.Inbox() <- Join{ClientID: "r2", Outbox: out}
	for i := 0; i < 5; i++ { // state, count, state, count, count
		recvMsg(t, out, 500*time.Millisecond)
	}

	l.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdResetDraft}}
	recvType(t, out, types.MsgDraftReset)
	recvType(t, out, types.MsgDraftReset)
}

func TestLobby_ConcurrentPicksAreSerialized(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	out := join(t, l, "c1", 128)
	l.Inbox() <- startCmd(2, 32, 100)
	recvType(t, out, types.MsgDraftStarted)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Inbox() <- pickCmd(engine.CmdPick, i+1, fmt.Sprintf("p%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 40; i++ {
		recvType(t, out, types.MsgPickMade)
	}
	view := recvView(t, l)
	if view.Session.CurrentPickIndex != 40 || len(view.Session.Picks) != 40 || len(view.Session.AvailablePlayerIDs) != 60 {
		t.Fatalf("lost or duplicated picks: idx=%d picks=%d avail=%d",
			view.Session.CurrentPickIndex, len(view.Session.Picks), len(view.Session.AvailablePlayerIDs))
	}
}

type stubPicker struct{ ok bool }

func (p stubPicker) NextPick(s draft.Session) (draft.Pick, bool) {
	if !p.ok {
		return draft.Pick{}, false
	}
	n := s.CurrentPickIndex + 1
	return draft.Pick{Round: 1, Pick: n, Overall: n, Team: "NYG", Player: draft.Player{ID: s.AvailablePlayerIDs[0]}}, true
}

func TestLobby_AutoPick(t *testing.T) {
	l, _ := newTestLobby(t, Options{Picker: stubPicker{ok: true}})
	out := join(t, l, "c1", 8)
	l.Inbox() <- startCmd(1, 32, 5)
	recvType(t, out, types.MsgDraftStarted)

	l.Inbox() <- AutoPick{}
	made := recvType(t, out, types.MsgPickMade)
	if made.Pick.Player.ID != "p0" || made.Session.CurrentPickIndex != 1 {
		t.Fatalf("unexpected auto pick %+v", made)
	}

	skip, _ := newTestLobby(t, Options{Picker: stubPicker{ok: false}})
	skipOut := join(t, skip, "c1", 8)
	skip.Inbox() <- AutoPick{}
	recvNoMsg(t, skipOut, 100*time.Millisecond)
}

type failingStore struct{ store.Store }

func (failingStore) UpdateSession(context.Context, string, store.Update) (draft.Session, error) {
	return draft.Session{}, errors.New("disk on fire")
}

func TestLobby_StoreFailureDropsMutation(t *testing.T) {
	l, _ := newTestLobby(t, Options{Store: failingStore{}})
	out := join(t, l, "c1", 8)

	l.Inbox() <- startCmd(1, 32, 5)
	recvNoMsg(t, out, 100*time.Millisecond)
	if v := recvView(t, l); v.Session.Status != draft.StatusWaiting {
		t.Fatalf("failed write must not commit, got %s", v.Session.Status)
	}
}

func TestLobby_ShutdownRejectsSend(t *testing.T) {
	l, _ := newTestLobby(t, Options{})
	l.Inbox() <- Shutdown{}

	deadline := time.After(time.Second)
	for l.Send(AutoPick{}) {
		select {
		case <-deadline:
			t.Fatalf("lobby still accepting messages after shutdown")
		default:
		}
	}
}
