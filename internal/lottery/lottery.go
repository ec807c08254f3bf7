// Package lottery simulates a weighted draft lottery for the non-playoff
// teams. Only the top four slots are drawn; the rest keep record order with
// a floor that stops the worst team falling past fifth.
package lottery

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

const (
	MaxTeams = 14
	Draws    = 4
	// TotalCombinations is the sum of Weights.
	TotalCombinations = 1000
)

// Weights holds the combinations for original slots 1..14, worst record first.
var Weights = [MaxTeams]int{140, 140, 140, 125, 105, 90, 75, 60, 45, 30, 20, 15, 10, 5}

// Source yields uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type Result struct {
	OriginalSlot int    `json:"originalSlot"`
	TeamCode     string `json:"teamCode"`
	NewSlot      int    `json:"newSlot"`
	Combinations int    `json:"combinations"`
	Odds         string `json:"odds"`
	Movement     int    `json:"movement"`
}

// WeightedIndex walks weights subtracting each from draw*sum until the
// remainder reaches zero. Rounding that exhausts the walk picks the last index.
// Returns -1 for an empty slice.
func WeightedIndex(weights []float64, draw float64) int {
	if len(weights) == 0 {
		return -1
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	r := draw * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Odds returns the percentage string for an original slot, e.g. "14.0%".
func Odds(originalSlot int) string {
	if originalSlot < 1 || originalSlot > MaxTeams {
		return "0.0%"
	}
	return formatOdds(Weights[originalSlot-1])
}

func formatOdds(combinations int) string {
	return fmt.Sprintf("%.1f%%", float64(combinations)*100/TotalCombinations)
}

// Simulate runs one lottery. teams are ordered worst record first; anything
// past MaxTeams is ignored and fewer teams are drawn as given. A nil rng
// falls back to the shared math/rand source.
func Simulate(teams []string, rng Source) []Result {
	if rng == nil {
		rng = globalSource{}
	}
	if len(teams) > MaxTeams {
		teams = teams[:MaxTeams]
	}
	n := len(teams)
	if n == 0 {
		return []Result{}
	}

	type entry struct {
		slot int // 1-based original slot
		code string
	}
	remaining := make([]entry, n)
	for i, code := range teams {
		remaining[i] = entry{slot: i + 1, code: code}
	}

	newSlot := make([]int, n) // indexed by original slot - 1
	for pick := 1; pick <= Draws && len(remaining) > 0; pick++ {
		weights := make([]float64, len(remaining))
		for i, e := range remaining {
			weights[i] = float64(Weights[e.slot-1])
		}
		won := WeightedIndex(weights, rng.Float64())
		newSlot[remaining[won].slot-1] = pick
		remaining = slices.Delete(remaining, won, won+1)
	}

	// Leftovers keep record order, so a worst team that missed the draw is
	// always first among them and lands at slot 5.
	next := n - len(remaining) + 1
	for _, e := range remaining {
		newSlot[e.slot-1] = next
		next++
	}

	results := make([]Result, n)
	for i, code := range teams {
		slot := i + 1
		results[i] = Result{
			OriginalSlot: slot,
			TeamCode:     code,
			NewSlot:      newSlot[i],
			Combinations: Weights[i],
			Odds:         formatOdds(Weights[i]),
			Movement:     slot - newSlot[i],
		}
	}
	slices.SortFunc(results, func(a, b Result) int { return a.NewSlot - b.NewSlot })
	return results
}

// Trades turns a lottery outcome into pick overrides for round one. base is
// the pre-lottery first round; each lottery result claims the slot at its new
// position, which becomes a trade when the owner changes.
func Trades(results []Result, base []draft.Slot) []draft.Trade {
	var out []draft.Trade
	for _, r := range results {
		idx := r.NewSlot - 1
		if idx < 0 || idx >= len(base) {
			continue
		}
		slot := base[idx]
		if slot.TeamCode == r.TeamCode {
			continue
		}
		out = append(out, draft.Trade{PickOverall: slot.Overall, FromTeam: slot.TeamCode, ToTeam: r.TeamCode})
	}
	return out
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
