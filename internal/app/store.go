package app

import (
	"context"

	"mission-quiz-service/internal/domain"
)

// Catalog serves the read-only mission and question reference data.
type Catalog interface {
	ListMissions(ctx context.Context) ([]domain.Mission, error)
	GetMission(ctx context.Context, id string) (domain.Mission, error)
	// ListQuestionsByMission returns questions sorted ascending by Order.
	// An unknown mission yields an empty slice.
	ListQuestionsByMission(ctx context.Context, missionID string) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
}

// PlayerStore holds mutable player state (in-memory, Redis, SQLite).
// Mutations are visible to the next read on the same store.
type PlayerStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	// CreateUser fails with a ConflictError when the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error)
	UpdateUserScore(ctx context.Context, userID string, delta int) (domain.User, error)
	IncrementMissionsCompleted(ctx context.Context, userID string) (domain.User, error)

	GetProgress(ctx context.Context, userID, missionID string) (domain.UserMissionProgress, error)
	// UpsertProgress keeps the record ID across updates and always refreshes LastPlayedAt.
	UpsertProgress(ctx context.Context, userID, missionID string, questionsCompleted, totalScore int, isCompleted bool) (domain.UserMissionProgress, error)

	RecordAnswer(ctx context.Context, userID, questionID, answer string, isCorrect bool, pointsEarned int) (domain.UserAnswer, error)
	ListAnswers(ctx context.Context, userID string) ([]domain.UserAnswer, error)

	// TopUsers returns at most limit users, highest TotalScore first, ties in a stable order.
	TopUsers(ctx context.Context, limit int) ([]domain.User, error)

	// SeedUsers inserts users that are not present yet; existing IDs are left untouched.
	SeedUsers(ctx context.Context, users []domain.User) error
}

// RecordStore is the full entity store.
type RecordStore interface {
	Catalog
	PlayerStore
}

// Records joins a catalog and a player store into a RecordStore.
type Records struct {
	Catalog
	PlayerStore
}

var _ RecordStore = Records{}
