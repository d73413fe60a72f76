package http

import (
	"net/http"

	"mission-quiz-service/internal/app"
	"mission-quiz-service/internal/domain"
)

func (a *API) HandleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := a.query.ListMissions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

func (a *API) HandleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := a.query.GetMission(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func (a *API) HandleMissionQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := a.query.ListQuestions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (a *API) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.query.GetUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) HandleUserProgress(w http.ResponseWriter, r *http.Request) {
	rows, err := a.query.UserProgressSummary(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) HandleUserAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := a.query.ListAnswers(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

func (a *API) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		answersSubmitted.WithLabelValues("rejected").Inc()
		writeServiceError(w, r, err)
		return
	}

	result, err := a.scorer.SubmitAnswer(r.Context(), r.PathValue("userId"), domain.AnswerSubmission{
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		answersSubmitted.WithLabelValues("rejected").Inc()
		writeServiceError(w, r, err)
		return
	}

	if result.IsCorrect {
		answersSubmitted.WithLabelValues("correct").Inc()
	} else {
		answersSubmitted.WithLabelValues("incorrect").Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := a.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimitParam(r, "limit", a.defaultLimit, app.MaxLeaderboardLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := a.query.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.RankUsers(users))
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
