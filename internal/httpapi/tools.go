package httpapi

import (
	"errors"
	"math/rand"
	"net/http"

	"github.com/jtladams423-replit/degen-gm/internal/board"
	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/lottery"
	"github.com/jtladams423-replit/degen-gm/internal/slots"
)

type lotteryRequest struct {
	Teams []string `json:"teams"`
	Seed  *int64   `json:"seed,omitempty"`
}

type lotteryResponse struct {
	Results []lottery.Result `json:"results"`
	// Trades re-assigns the board's first-round picks to the lottery winners.
	Trades []draft.Trade `json:"trades,omitempty"`
}

func RunLottery(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lotteryRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var rng lottery.Source
		if req.Seed != nil {
			rng = rand.New(rand.NewSource(*req.Seed))
		}
		res := lotteryResponse{Results: lottery.Simulate(req.Teams, rng)}
		if b != nil {
			res.Trades = lottery.Trades(res.Results, b.Slots(1, false, nil))
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type slotsRequest struct {
	Rounds           int           `json:"rounds"`
	IncludeCompPicks bool          `json:"includeCompPicks"`
	Trades           []draft.Trade `json:"trades,omitempty"`
}

type slotsResponse struct {
	Slots []draft.Slot `json:"slots"`
}

func PlanSlots(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			writeError(w, http.StatusServiceUnavailable, "no draft board loaded")
			return
		}
		var req slotsRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := slots.ValidateTrades(req.Trades); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, slotsResponse{Slots: b.Slots(req.Rounds, req.IncludeCompPicks, req.Trades)})
	}
}

type advisorRequest struct {
	Team               string       `json:"team"`
	Picks              []draft.Pick `json:"picks,omitempty"`
	AvailablePlayerIDs []string     `json:"availablePlayerIds"`
}

type pickResponse struct {
	Player draft.Player `json:"player"`
}

func AdvisorPick(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := advisorInput(w, r, b)
		if !ok {
			return
		}
		p, err := b.CPUPick(req.Team, req.Picks, req.AvailablePlayerIDs)
		if err != nil {
			advisorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pickResponse{Player: p})
	}
}

func AdvisorSuggestions(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := advisorInput(w, r, b)
		if !ok {
			return
		}
		s, err := b.Suggest(req.Team, req.Picks, req.AvailablePlayerIDs)
		if err != nil {
			advisorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func advisorInput(w http.ResponseWriter, r *http.Request, b *board.Board) (advisorRequest, bool) {
	var req advisorRequest
	if b == nil {
		writeError(w, http.StatusServiceUnavailable, "no draft board loaded")
		return req, false
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

func advisorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrUnknownTeam):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, board.ErrNoBoardPlayer):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
