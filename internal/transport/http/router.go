package http

import (
	"net/http"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/logger"
)

// NewRouter wires health, REST and websocket routes onto one mux.
func NewRouter(engine *app.QuizEngine, registrations *app.RegistrationService, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	NewAPIHandler(engine, registrations, log).Register(mux)
	mux.HandleFunc("/ws", NewWSHandler(engine, log).ServeWS)
	return mux
}
