package types

import "github.com/jtladams423-replit/degen-gm/internal/draft"

// Client -> server message types.
const (
	MsgJoin       = "join"
	MsgPick       = "pick"
	MsgSimPick    = "sim_pick"
	MsgAutoPick   = "auto_pick"
	MsgStartDraft = "start_draft"
	MsgResetDraft = "reset_draft"
)

// Server -> client message types.
const (
	MsgSessionState = "session_state"
	MsgClientCount  = "client_count"
	MsgDraftStarted = "draft_started"
	MsgPickMade     = "pick_made"
	MsgDraftReset   = "draft_reset"
	MsgError        = "error"
)

type ClientMessage struct {
	Type               string                      `json:"type"`
	Code               string                      `json:"code,omitempty"`
	Pick               *draft.Pick                 `json:"pick,omitempty"`
	TeamControllers    map[string]draft.Controller `json:"teamControllers,omitempty"`
	Rounds             int                         `json:"rounds,omitempty"`
	SlotsPerRound      int                         `json:"slotsPerRound,omitempty"`
	AvailablePlayerIDs []string                    `json:"availablePlayerIds,omitempty"`
	Trades             []draft.Trade               `json:"trades,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"`
	Session *draft.Session `json:"session,omitempty"`
	Clients int            `json:"clients,omitempty"`
	Pick    *draft.Pick    `json:"pick,omitempty"`
	Message string         `json:"message,omitempty"`
}
