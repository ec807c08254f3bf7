package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/hub"
	"github.com/jtladams423-replit/degen-gm/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type sessionResponse struct {
	Code    string        `json:"code"`
	Session draft.Session `json:"session"`
}

func CreateSession(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, s, err := h.Create(r.Context())
		if err != nil {
			logger.Error("create session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{Code: s.Code, Session: s})
	}
}

func GetSession(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.Session(r.Context(), chi.URLParam(r, "code"))
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case err != nil:
			logger.Error("get session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load session")
		default:
			writeJSON(w, http.StatusOK, sessionResponse{Code: s.Code, Session: s})
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
