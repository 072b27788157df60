package http

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"sprint-quiz-service/internal/app"
)

// NewRouter wires the HTTP surface: service status, stats, liveness and the
// websocket endpoint.
func NewRouter(service *app.GameService, ws *WSHandler, logger zerolog.Logger) *httprouter.Router {
	router := httprouter.New()
	router.GET("/", rootStatus(service, logger))
	router.GET("/stats", stats(service, logger))
	router.GET("/healthz", healthz)
	router.GET("/ws", ws.ServeWS)
	return router
}

func rootStatus(service *app.GameService, logger zerolog.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s := service.Stats()
		writeJSON(w, logger, map[string]any{
			"status":           "Sprint Quiz Backend Running",
			"questions_loaded": s.TotalQuestions,
			"active_players":   s.ActivePlayers,
		})
	}
}

func stats(service *app.GameService, logger zerolog.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, logger, service.Stats())
	}
}

func healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug().Err(err).Msg("write response")
	}
}
