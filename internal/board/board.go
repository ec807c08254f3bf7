// Package board loads the draft board for a sport and year: the published
// pick order, team needs and the graded player pool. It is the source the
// planner, advisor and auto-picker read from.
package board

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jtladams423-replit/degen-gm/internal/advisor"
	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/engine"
	"github.com/jtladams423-replit/degen-gm/internal/slots"
)

var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrInvalidBoard  = errors.New("invalid board")
	ErrNoBoardPlayer = errors.New("no players available")
)

type Board struct {
	Sport         string            `yaml:"sport"`
	Year          int               `yaml:"year"`
	SlotsPerRound int               `yaml:"slotsPerRound"`
	Order         []slots.BaseEntry `yaml:"order"`
	Teams         []draft.Team      `yaml:"teams"`
	Players       []draft.Player    `yaml:"players"`

	teams   map[string]draft.Team
	players map[string]draft.Player
	ranked  []draft.Player
}

func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func Parse(data []byte) (*Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := b.index(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Board) index() error {
	if b.SlotsPerRound <= 0 {
		return fmt.Errorf("%w: slotsPerRound must be positive", ErrInvalidBoard)
	}

	b.teams = make(map[string]draft.Team, len(b.Teams))
	for _, t := range b.Teams {
		b.teams[t.Code] = t
	}
	perRound := map[int]int{}
	for _, e := range b.Order {
		if _, ok := b.teams[e.Team]; !ok {
			return fmt.Errorf("%w %q at pick %d", ErrUnknownTeam, e.Team, e.Pick)
		}
		if e.Round <= 0 || e.Pick <= 0 {
			return fmt.Errorf("%w: pick %d in round %d", ErrInvalidBoard, e.Pick, e.Round)
		}
		perRound[e.Round]++
	}
	// The engine ends a draft after rounds*slotsPerRound picks, so every
	// listed round must fill its standard slots or auto-picks run dry first.
	for round, n := range perRound {
		if n < b.SlotsPerRound {
			return fmt.Errorf("%w: round %d has %d picks, want at least %d", ErrInvalidBoard, round, n, b.SlotsPerRound)
		}
	}

	b.players = make(map[string]draft.Player, len(b.Players))
	for _, p := range b.Players {
		if _, dup := b.players[p.ID]; dup || p.ID == "" {
			return fmt.Errorf("%w: player id %q missing or duplicated", ErrInvalidBoard, p.ID)
		}
		b.players[p.ID] = p
	}

	b.ranked = slices.Clone(b.Players)
	slices.SortStableFunc(b.ranked, func(x, y draft.Player) int { return cmp.Compare(y.Grade, x.Grade) })
	return nil
}

func (b *Board) Team(code string) (draft.Team, bool) {
	t, ok := b.teams[code]
	return t, ok
}

func (b *Board) Player(id string) (draft.Player, bool) {
	p, ok := b.players[id]
	return p, ok
}

// Rounds is the number of rounds the published order covers.
func (b *Board) Rounds() int {
	n := 0
	for _, e := range b.Order {
		n = max(n, e.Round)
	}
	return n
}

// Ranked returns the full pool, best grade first.
func (b *Board) Ranked() []draft.Player {
	return slices.Clone(b.ranked)
}

// PlayerIDs lists the ranked pool's ids, ready for a start_draft message.
func (b *Board) PlayerIDs() []string {
	ids := make([]string, len(b.ranked))
	for i, p := range b.ranked {
		ids[i] = p.ID
	}
	return ids
}

// Available keeps the ranked players whose id is in ids, preserving rank order.
func (b *Board) Available(ids []string) []draft.Player {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]draft.Player, 0, len(ids))
	for _, p := range b.ranked {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) Slots(rounds int, includeCompPicks bool, trades []draft.Trade) []draft.Slot {
	return slots.Plan(b.Order, slots.Options{
		Rounds:           rounds,
		IncludeCompPicks: includeCompPicks,
		SlotsPerRound:    b.SlotsPerRound,
		Trades:           trades,
	})
}

// Suggest ranks hints for team given the draft so far.
func (b *Board) Suggest(teamCode string, picks []draft.Pick, availableIDs []string) (advisor.Suggestions, error) {
	team, ok := b.Team(teamCode)
	if !ok {
		return advisor.Suggestions{}, fmt.Errorf("%w %q", ErrUnknownTeam, teamCode)
	}
	return advisor.Suggest(team, draft.TeamPicks(picks, teamCode), b.Available(availableIDs)), nil
}

// CPUPick picks for team given the draft so far.
func (b *Board) CPUPick(teamCode string, picks []draft.Pick, availableIDs []string) (draft.Player, error) {
	team, ok := b.Team(teamCode)
	if !ok {
		return draft.Player{}, fmt.Errorf("%w %q", ErrUnknownTeam, teamCode)
	}
	p, ok := advisor.CPUPick(team, draft.TeamPicks(picks, teamCode), b.Available(availableIDs))
	if !ok {
		return draft.Player{}, ErrNoBoardPlayer
	}
	return p, nil
}

// NextPick makes the simulated pick for the team on the clock. Teams run by
// a user are never auto-picked; teams without a controller count as CPU.
func (b *Board) NextPick(s draft.Session) (draft.Pick, bool) {
	slot, ok := engine.OnTheClock(s, b.Slots(s.Rounds, false, s.Trades))
	if !ok {
		return draft.Pick{}, false
	}
	if c, ok := s.TeamControllers[slot.TeamCode]; ok && c.Type == draft.ControllerUser {
		return draft.Pick{}, false
	}

	player, err := b.CPUPick(slot.TeamCode, s.Picks, s.AvailablePlayerIDs)
	if err != nil {
		return draft.Pick{}, false
	}
	return draft.Pick{
		Round:   slot.Round,
		Pick:    slot.PickInRound,
		Overall: slot.Overall,
		Team:    slot.TeamCode,
		Player:  player,
	}, true
}
