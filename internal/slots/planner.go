package slots

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

var ErrConflictingTrade = errors.New("conflicting trade for pick")

// BaseEntry is one row of the published draft order. Pick is the absolute
// (overall) pick number.
type BaseEntry struct {
	Round        int    `json:"round" yaml:"round"`
	Pick         int    `json:"pick" yaml:"pick"`
	Team         string `json:"team" yaml:"team"`
	OriginalTeam string `json:"originalTeam,omitempty" yaml:"originalTeam"`
}

type Options struct {
	Rounds           int
	IncludeCompPicks bool
	// SlotsPerRound is the league's standard team count. Comp picks sit
	// after this many entries in each round.
	SlotsPerRound int
	Trades        []draft.Trade
}

// Plan derives the ordered slot list. It never fails; empty or degenerate
// input yields an empty list.
func Plan(base []BaseEntry, opts Options) []draft.Slot {
	if opts.Rounds <= 0 || len(base) == 0 {
		return []draft.Slot{}
	}

	entries := slices.Clone(base)
	slices.SortStableFunc(entries, func(a, b BaseEntry) int { return a.Pick - b.Pick })

	trades := make(map[int]draft.Trade, len(opts.Trades))
	for _, t := range opts.Trades {
		if _, dup := trades[t.PickOverall]; !dup {
			trades[t.PickOverall] = t
		}
	}

	out := make([]draft.Slot, 0, len(entries))
	perRound := map[int]int{} // standard-slot counter, counts dropped comp picks too
	inRound := map[int]int{}  // pickInRound counter over kept slots
	lastOverall := 0

	for _, e := range entries {
		if e.Round <= 0 || e.Round > opts.Rounds || e.Pick <= 0 {
			continue
		}
		// Overall must stay strictly increasing.
		if len(out) > 0 && e.Pick <= lastOverall {
			continue
		}

		perRound[e.Round]++
		if !opts.IncludeCompPicks && perRound[e.Round] > opts.SlotsPerRound {
			continue
		}

		slot := draft.Slot{
			Round:            e.Round,
			Overall:          e.Pick,
			TeamCode:         e.Team,
			OriginalTeamCode: e.OriginalTeam,
		}
		if t, ok := trades[e.Pick]; ok && t.ToTeam != "" {
			if slot.OriginalTeamCode == "" && slot.TeamCode != t.ToTeam {
				slot.OriginalTeamCode = slot.TeamCode
			}
			slot.TeamCode = t.ToTeam
		}

		inRound[e.Round]++
		slot.PickInRound = inRound[e.Round]
		lastOverall = e.Pick
		out = append(out, slot)
	}
	return out
}

// ValidateTrades rejects a trade list that references the same pick twice.
// Plan tolerates such lists (first trade wins); editors should not produce them.
func ValidateTrades(trades []draft.Trade) error {
	seen := make(map[int]struct{}, len(trades))
	for _, t := range trades {
		if _, ok := seen[t.PickOverall]; ok {
			return fmt.Errorf("%w %d", ErrConflictingTrade, t.PickOverall)
		}
		seen[t.PickOverall] = struct{}{}
	}
	return nil
}
