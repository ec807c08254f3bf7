package engine

import (
	"errors"
	"slices"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

var ErrSessionNotActive = errors.New("session not active")
var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrMissingPick = errors.New("missing pick")

// DefaultSlotsPerRound is used when a draft starts without an explicit
// per-round slot count.
const DefaultSlotsPerRound = 32

type CommandType string

const (
	CmdStartDraft CommandType = "start_draft"
	CmdPick       CommandType = "pick"
	CmdSimPick    CommandType = "sim_pick"
	CmdResetDraft CommandType = "reset_draft"
)

/*
	CmdStartDraft -> EvtDraftStarted
	CmdPick       -> EvtPickMade
	CmdSimPick    -> EvtPickMade -> EvtDraftCompleted (when slots or players run out)
	CmdResetDraft -> EvtDraftReset

	Only sim_pick checks for the end of the draft; a human pick on the last
	slot leaves the session active until the next reset or start.
*/

type Command struct {
	Type               CommandType
	Pick               *draft.Pick
	TeamControllers    map[string]draft.Controller
	Rounds             int
	SlotsPerRound      int
	AvailablePlayerIDs []string
	Trades             []draft.Trade
}

type EventType string

const (
	EvtDraftStarted   EventType = "DraftStarted"
	EvtPickMade       EventType = "PickMade"
	EvtDraftCompleted EventType = "DraftCompleted"
	EvtDraftReset     EventType = "DraftReset"
)

type Event struct {
	Type EventType
	Pick *draft.Pick
}

// Apply is the session state machine. It never mutates s; on error the
// returned session is s unchanged.
func Apply(s draft.Session, cmd Command) ([]Event, draft.Session, error) {
	switch cmd.Type {
	case CmdStartDraft:
		// Allowed from any status; starting again discards the previous draft.
		newState := s.Clone()
		newState.Status = draft.StatusActive
		newState.Rounds = cmd.Rounds
		newState.SlotsPerRound = cmd.SlotsPerRound
		if newState.SlotsPerRound <= 0 {
			newState.SlotsPerRound = DefaultSlotsPerRound
		}
		newState.TeamControllers = cloneControllers(cmd.TeamControllers)
		newState.AvailablePlayerIDs = append([]string{}, cmd.AvailablePlayerIDs...)
		newState.Trades = slices.Clone(cmd.Trades)
		newState.Picks = []draft.Pick{}
		newState.CurrentPickIndex = 0
		return []Event{{Type: EvtDraftStarted}}, newState, nil

	case CmdPick, CmdSimPick:
		if s.Status != draft.StatusActive {
			return nil, s, ErrSessionNotActive
		}
		if cmd.Pick == nil {
			return nil, s, ErrMissingPick
		}

		pick := *cmd.Pick
		newState := s.Clone()
		newState.Picks = append(newState.Picks, pick)
		newState.AvailablePlayerIDs = withoutPicked(s.AvailablePlayerIDs, newState.Picks)
		newState.CurrentPickIndex++

		events := []Event{{Type: EvtPickMade, Pick: &pick}}

		// Completion
		if cmd.Type == CmdSimPick && DraftOver(newState) {
			newState.Status = draft.StatusCompleted
			events = append(events, Event{Type: EvtDraftCompleted})
		}
		return events, newState, nil

	case CmdResetDraft:
		newState := s.Clone()
		newState.Status = draft.StatusWaiting
		newState.Picks = []draft.Pick{}
		newState.CurrentPickIndex = 0
		newState.AvailablePlayerIDs = []string{}
		return []Event{{Type: EvtDraftReset}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// TotalSlots is the number of picks after which a simulated pick ends the draft.
func TotalSlots(s draft.Session) int {
	return s.Rounds * s.SlotsPerRound
}

func DraftOver(s draft.Session) bool {
	return s.CurrentPickIndex >= TotalSlots(s) || len(s.AvailablePlayerIDs) == 0
}

// withoutPicked recomputes the pool from scratch rather than removing only
// the newest pick, so a stale duplicate can never survive.
func withoutPicked(available []string, picks []draft.Pick) []string {
	picked := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		picked[p.Player.ID] = struct{}{}
	}
	out := make([]string, 0, len(available))
	for _, id := range available {
		if _, ok := picked[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func cloneControllers(in map[string]draft.Controller) map[string]draft.Controller {
	out := make(map[string]draft.Controller, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
