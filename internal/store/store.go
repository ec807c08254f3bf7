// Package store persists draft sessions by their public code.
package store

import (
	"context"
	"errors"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrCodeExhausted = errors.New("could not allocate a unique session code")
)

// Update carries the fields to change; nil fields are left alone.
type Update struct {
	Status             *draft.Status
	Rounds             *int
	SlotsPerRound      *int
	CurrentPickIndex   *int
	TeamControllers    map[string]draft.Controller
	Picks              []draft.Pick
	AvailablePlayerIDs []string
	Trades             []draft.Trade
}

// FullUpdate overwrites every mutable field with the values in s.
func FullUpdate(s draft.Session) Update {
	status, rounds, slots, idx := s.Status, s.Rounds, s.SlotsPerRound, s.CurrentPickIndex
	u := Update{
		Status:             &status,
		Rounds:             &rounds,
		SlotsPerRound:      &slots,
		CurrentPickIndex:   &idx,
		TeamControllers:    s.TeamControllers,
		Picks:              s.Picks,
		AvailablePlayerIDs: s.AvailablePlayerIDs,
		Trades:             s.Trades,
	}
	// Empty-but-set slices must still overwrite.
	if u.TeamControllers == nil {
		u.TeamControllers = map[string]draft.Controller{}
	}
	if u.Picks == nil {
		u.Picks = []draft.Pick{}
	}
	if u.AvailablePlayerIDs == nil {
		u.AvailablePlayerIDs = []string{}
	}
	if u.Trades == nil {
		u.Trades = []draft.Trade{}
	}
	return u
}

func (u Update) apply(s *draft.Session) {
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.Rounds != nil {
		s.Rounds = *u.Rounds
	}
	if u.SlotsPerRound != nil {
		s.SlotsPerRound = *u.SlotsPerRound
	}
	if u.CurrentPickIndex != nil {
		s.CurrentPickIndex = *u.CurrentPickIndex
	}
	if u.TeamControllers != nil {
		s.TeamControllers = u.TeamControllers
	}
	if u.Picks != nil {
		s.Picks = u.Picks
	}
	if u.AvailablePlayerIDs != nil {
		s.AvailablePlayerIDs = u.AvailablePlayerIDs
	}
	if u.Trades != nil {
		s.Trades = u.Trades
	}
}

// Store is safe for concurrent use.
type Store interface {
	CreateSession(ctx context.Context) (draft.Session, error)
	GetSessionByCode(ctx context.Context, code string) (draft.Session, error)
	UpdateSession(ctx context.Context, code string, u Update) (draft.Session, error)
	Close() error
}
