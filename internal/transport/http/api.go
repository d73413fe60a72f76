package http

import (
	"context"

	"mission-quiz-service/internal/domain"
)

// QueryService is the read side the handlers depend on.
type QueryService interface {
	ListMissions(ctx context.Context) ([]domain.Mission, error)
	GetMission(ctx context.Context, id string) (domain.Mission, error)
	ListQuestions(ctx context.Context, missionID string) ([]domain.Question, error)
	UserProgressSummary(ctx context.Context, userID string) ([]domain.ProgressSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListAnswers(ctx context.Context, userID string) ([]domain.UserAnswer, error)
}

// AnswerScorer scores submissions.
type AnswerScorer interface {
	SubmitAnswer(ctx context.Context, userID string, submission domain.AnswerSubmission) (domain.AnswerResult, error)
}

// Registrar creates users.
type Registrar interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
}

type API struct {
	query        QueryService
	scorer       AnswerScorer
	users        Registrar
	defaultLimit int
}

const fallbackLeaderboardLimit = 10

func NewAPI(query QueryService, scorer AnswerScorer, users Registrar, defaultLimit int) *API {
	if defaultLimit <= 0 {
		defaultLimit = fallbackLeaderboardLimit
	}
	return &API{
		query:        query,
		scorer:       scorer,
		users:        users,
		defaultLimit: defaultLimit,
	}
}
