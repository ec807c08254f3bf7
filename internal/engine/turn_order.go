package engine

import "github.com/jtladams423-replit/degen-gm/internal/draft"

// OnTheClock returns the slot for the session's next pick. It reports false
// when the session is not active or the plan has run out.
func OnTheClock(s draft.Session, plan []draft.Slot) (draft.Slot, bool) {
	if s.Status != draft.StatusActive {
		return draft.Slot{}, false
	}
	if s.CurrentPickIndex < 0 || s.CurrentPickIndex >= len(plan) {
		return draft.Slot{}, false
	}
	return plan[s.CurrentPickIndex], true
}
