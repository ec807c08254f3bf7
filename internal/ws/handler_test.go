package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/hub"
	"github.com/jtladams423-replit/degen-gm/internal/lobby"
	"github.com/jtladams423-replit/degen-gm/internal/store"
	"github.com/jtladams423-replit/degen-gm/internal/types"
)

func newServer(t *testing.T) (*hub.Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(ctx, store.NewMemory(), lobby.Options{SlotsPerRound: 2})
	srv := httptest.NewServer(Handler(h, Options{OutboxSize: 16}))
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func send(t *testing.T, c *websocket.Conn, msg any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, c, msg))
}

func read(t *testing.T, c *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var msg types.ServerMessage
	require.NoError(t, wsjson.Read(ctx, c, &msg))
	return msg
}

func readType(t *testing.T, c *websocket.Conn, typ string) types.ServerMessage {
	t.Helper()
	msg := read(t, c)
	require.Equal(t, typ, msg.Type)
	return msg
}

func createSession(t *testing.T, h *hub.Hub) string {
	t.Helper()
	_, s, err := h.Create(context.Background())
	require.NoError(t, err)
	return s.Code
}

func TestJoinUnknownCode(t *testing.T) {
	_, url := newServer(t)
	c := dial(t, url)

	send(t, c, types.ClientMessage{Type: types.MsgJoin, Code: "ZZZZZZ"})
	msg := readType(t, c, types.MsgError)
	assert.Equal(t, "Session not found", msg.Message)
}

func TestJoinSendsStateThenCount(t *testing.T) {
	h, url := newServer(t)
	code := createSession(t, h)
	a := dial(t, url)
	b := dial(t, url)

	send(t, a, types.ClientMessage{Type: types.MsgJoin, Code: code})
	st := readType(t, a, types.MsgSessionState)
	require.NotNil(t, st.Session)
	assert.Equal(t, code, st.Session.Code)
	assert.Equal(t, draft.StatusWaiting, st.Session.Status)
	assert.Equal(t, 1, st.Clients)
	assert.Equal(t, 1, readType(t, a, types.MsgClientCount).Clients)

	send(t, b, types.ClientMessage{Type: types.MsgJoin, Code: strings.ToLower(code)})
	assert.Equal(t, 2, readType(t, b, types.MsgSessionState).Clients)
	assert.Equal(t, 2, readType(t, b, types.MsgClientCount).Clients)
	assert.Equal(t, 2, readType(t, a, types.MsgClientCount).Clients)
}

func TestDraftBroadcastsToEveryClient(t *testing.T) {
	h, url := newServer(t)
	code := createSession(t, h)
	a := dial(t, url)
	b := dial(t, url)

	send(t, a, types.ClientMessage{Type: types.MsgJoin, Code: code})
	readType(t, a, types.MsgSessionState)
	readType(t, a, types.MsgClientCount)
	send(t, b, types.ClientMessage{Type: types.MsgJoin, Code: code})
	readType(t, b, types.MsgSessionState)
	readType(t, b, types.MsgClientCount)
	readType(t, a, types.MsgClientCount)

	send(t, a, types.ClientMessage{
		Type:               types.MsgStartDraft,
		Rounds:             1,
		AvailablePlayerIDs: []string{"p1", "p2", "p3"},
		TeamControllers:    map[string]draft.Controller{"AAA": {Type: draft.ControllerUser, Name: "a"}},
	})
	for _, c := range []*websocket.Conn{a, b} {
		started := readType(t, c, types.MsgDraftStarted)
		require.NotNil(t, started.Session)
		assert.Equal(t, draft.StatusActive, started.Session.Status)
		assert.Equal(t, 2, started.Session.SlotsPerRound)
	}

	for i, id := range []string{"p1", "p2"} {
		send(t, b, types.ClientMessage{Type: types.MsgSimPick, Pick: &draft.Pick{
			Round: 1, Pick: i + 1, Overall: i + 1, Team: "AAA", Player: draft.Player{ID: id},
		}})
		for _, c := range []*websocket.Conn{a, b} {
			made := readType(t, c, types.MsgPickMade)
			require.NotNil(t, made.Pick)
			assert.Equal(t, id, made.Pick.Player.ID)
		}
	}

	s, err := h.Session(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, draft.StatusCompleted, s.Status)
	assert.Equal(t, []string{"p3"}, s.AvailablePlayerIDs)
}

func TestMalformedAndEarlyMessagesAreIgnored(t *testing.T) {
	h, url := newServer(t)
	code := createSession(t, h)
	c := dial(t, url)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte("{not json")))
	send(t, c, types.ClientMessage{Type: "shout"})
	send(t, c, types.ClientMessage{Type: types.MsgStartDraft, Rounds: 1, AvailablePlayerIDs: []string{"p1"}})

	// Still open, and the start before join did nothing.
	send(t, c, types.ClientMessage{Type: types.MsgJoin, Code: code})
	st := readType(t, c, types.MsgSessionState)
	assert.Equal(t, draft.StatusWaiting, st.Session.Status)
}

func TestRepeatedJoinRegistersTwice(t *testing.T) {
	h, url := newServer(t)
	code := createSession(t, h)
	c := dial(t, url)

	send(t, c, types.ClientMessage{Type: types.MsgJoin, Code: code})
	readType(t, c, types.MsgSessionState)
	readType(t, c, types.MsgClientCount)
	send(t, c, types.ClientMessage{Type: types.MsgJoin, Code: code})
	assert.Equal(t, 2, readType(t, c, types.MsgSessionState).Clients)
	// One count per registration.
	assert.Equal(t, 2, readType(t, c, types.MsgClientCount).Clients)
	assert.Equal(t, 2, readType(t, c, types.MsgClientCount).Clients)

	send(t, c, types.ClientMessage{Type: types.MsgResetDraft})
	readType(t, c, types.MsgDraftReset)
	readType(t, c, types.MsgDraftReset)
}

func TestDisconnectUpdatesCount(t *testing.T) {
	h, url := newServer(t)
	code := createSession(t, h)
	a := dial(t, url)
	b := dial(t, url)

	send(t, a, types.ClientMessage{Type: types.MsgJoin, Code: code})
	readType(t, a, types.MsgSessionState)
	readType(t, a, types.MsgClientCount)
	send(t, b, types.ClientMessage{Type: types.MsgJoin, Code: code})
	readType(t, b, types.MsgSessionState)
	readType(t, b, types.MsgClientCount)
	readType(t, a, types.MsgClientCount)

	_ = b.Close(websocket.StatusNormalClosure, "done")
	assert.Equal(t, 1, readType(t, a, types.MsgClientCount).Clients)

	// The session outlives its clients.
	_, err := h.Session(context.Background(), code)
	assert.NoError(t, err)
}
