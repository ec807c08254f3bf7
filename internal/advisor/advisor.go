// Package advisor chooses players for CPU-controlled teams and ranks hints
// for human teams on the clock. Available pools must be sorted by grade,
// best first. Scoring blends rank within a candidate window with how urgent
// the player's position is for the team.
package advisor

import (
	"math"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

const (
	bpaWeight  = 0.55
	needWeight = 0.45
)

// Window sizes the candidate pool as a fraction of the available players,
// never smaller than Floor.
type Window struct {
	Fraction float64
	Floor    int
}

var (
	CPUWindow     = Window{Fraction: 0.15, Floor: 15}
	SuggestWindow = Window{Fraction: 0.20, Floor: 20}
)

// Size returns min(available, max(Floor, ceil(Fraction*available))).
func (w Window) Size(available int) int {
	size := int(math.Ceil(w.Fraction * float64(available)))
	return min(available, max(w.Floor, size))
}

type Candidate struct {
	Player draft.Player `json:"player"`
	Rank   int          `json:"rank"`
	// NeedIndex is the matched position in the remaining needs, -1 for none.
	NeedIndex int     `json:"needIndex"`
	BPAScore  float64 `json:"bpaScore"`
	NeedScore float64 `json:"needScore"`
	Total     float64 `json:"total"`
}

type Suggestions struct {
	BestAvailable  []draft.Player `json:"bestAvailable"`
	BestByNeed     []draft.Player `json:"bestByNeed"`
	Recommended    *draft.Player  `json:"recommended,omitempty"`
	RemainingNeeds []string       `json:"remainingNeeds"`
}

// RemainingNeeds drops every need already covered by a drafted position
// group, keeping priority order. A fully covered board falls back to the
// original needs.
func RemainingNeeds(team draft.Team, picks []draft.Pick) []string {
	var remaining []string
	for _, need := range team.Needs {
		filled := false
		for _, p := range picks {
			if draft.SamePositionGroup(need, p.Player.Position) {
				filled = true
				break
			}
		}
		if !filled {
			remaining = append(remaining, need)
		}
	}
	if len(remaining) == 0 {
		return append([]string{}, team.Needs...)
	}
	return remaining
}

// NeedIndex returns the first remaining need the position satisfies, or -1.
func NeedIndex(needs []string, position string) int {
	for j, need := range needs {
		if draft.SamePositionGroup(need, position) {
			return j
		}
	}
	return -1
}

func needScore(j int) float64 {
	switch {
	case j < 0:
		return 0
	case j == 0:
		return 100
	case j == 1:
		return 80
	case j == 2:
		return 60
	default:
		return 40
	}
}

// Score evaluates the first w.Size(len(available)) players against needs.
func Score(needs []string, available []draft.Player, w Window) []Candidate {
	size := w.Size(len(available))
	out := make([]Candidate, 0, size)
	for i := 0; i < size; i++ {
		p := available[i]
		j := NeedIndex(needs, p.Position)
		bpa := 100 * (1 - float64(i)/float64(size))
		need := needScore(j)
		out = append(out, Candidate{
			Player:    p,
			Rank:      i,
			NeedIndex: j,
			BPAScore:  bpa,
			NeedScore: need,
			Total:     bpaWeight*bpa + needWeight*need,
		})
	}
	return out
}

// best is a strict argmax; the earlier candidate wins ties.
func best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	top := cands[0]
	for _, c := range cands[1:] {
		if c.Total > top.Total {
			top = c
		}
	}
	return top, true
}

// CPUPick selects a player for an autonomous team. It reports false when
// nothing is available.
func CPUPick(team draft.Team, picks []draft.Pick, available []draft.Player) (draft.Player, bool) {
	c, ok := best(Score(RemainingNeeds(team, picks), available, CPUWindow))
	return c.Player, ok
}

// Suggest builds hints for a human team on the clock.
func Suggest(team draft.Team, picks []draft.Pick, available []draft.Player) Suggestions {
	needs := RemainingNeeds(team, picks)
	cands := Score(needs, available, SuggestWindow)

	s := Suggestions{
		BestAvailable:  []draft.Player{},
		BestByNeed:     []draft.Player{},
		RemainingNeeds: needs,
	}
	for i := 0; i < len(cands) && i < 3; i++ {
		s.BestAvailable = append(s.BestAvailable, cands[i].Player)
	}

	seen := map[string]bool{}
	for _, need := range needs[:min(4, len(needs))] {
		for _, c := range cands {
			if !draft.SamePositionGroup(need, c.Player.Position) {
				continue
			}
			if !seen[c.Player.ID] {
				seen[c.Player.ID] = true
				s.BestByNeed = append(s.BestByNeed, c.Player)
			}
			break
		}
	}

	if top, ok := best(cands); ok {
		p := top.Player
		s.Recommended = &p
	}
	return s
}
