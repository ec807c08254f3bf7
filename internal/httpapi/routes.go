package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jtladams423-replit/degen-gm/internal/board"
	"github.com/jtladams423-replit/degen-gm/internal/hub"
	"github.com/jtladams423-replit/degen-gm/internal/ws"
)

type Deps struct {
	Hub    *hub.Hub
	Board  *board.Board // optional; board routes answer 503 without it
	Logger *zap.Logger
	WS     ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "http"))
	if d.WS.Logger == nil {
		d.WS.Logger = d.Logger
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.WS))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(d.Hub, logger))
		r.Get("/{code}", GetSession(d.Hub, logger))
	})

	r.Post("/lottery", RunLottery(d.Board))
	r.Post("/slots", PlanSlots(d.Board))
	r.Route("/advisor", func(r chi.Router) {
		r.Post("/pick", AdvisorPick(d.Board))
		r.Post("/suggestions", AdvisorSuggestions(d.Board))
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
