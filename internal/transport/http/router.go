package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/missions", api.HandleListMissions)
	mux.HandleFunc("GET /api/missions/{id}", api.HandleGetMission)
	mux.HandleFunc("GET /api/missions/{id}/questions", api.HandleMissionQuestions)
	mux.HandleFunc("GET /api/user/{userId}", api.HandleGetUser)
	mux.HandleFunc("GET /api/user/{userId}/progress", api.HandleUserProgress)
	mux.HandleFunc("GET /api/user/{userId}/answers", api.HandleUserAnswers)
	mux.HandleFunc("POST /api/user/{userId}/answer", api.HandleSubmitAnswer)
	mux.HandleFunc("POST /api/users", api.HandleRegister)
	mux.HandleFunc("GET /api/leaderboard", api.HandleLeaderboard)
	mux.HandleFunc("GET /healthz", api.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withObservability(withRecovery(mux))
}
