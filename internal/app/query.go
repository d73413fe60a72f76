package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"mission-quiz-service/internal/domain"
)

// QueryService provides the read-side views for display.
type QueryService struct {
	store RecordStore
}

func NewQueryService(store RecordStore) *QueryService {
	return &QueryService{store: store}
}

func (s *QueryService) ListMissions(ctx context.Context) ([]domain.Mission, error) {
	return s.store.ListMissions(ctx)
}

func (s *QueryService) GetMission(ctx context.Context, id string) (domain.Mission, error) {
	return s.store.GetMission(ctx, id)
}

// ListQuestions returns the mission's questions in display order.
// Unknown missions are reported as not found rather than as an empty list.
func (s *QueryService) ListQuestions(ctx context.Context, missionID string) ([]domain.Question, error) {
	if _, err := s.store.GetMission(ctx, missionID); err != nil {
		return nil, err
	}
	return s.store.ListQuestionsByMission(ctx, missionID)
}

// UserProgressSummary returns one row per mission, zeroed where the user has not played yet.
func (s *QueryService) UserProgressSummary(ctx context.Context, userID string) ([]domain.ProgressSummary, error) {
	missions, err := s.store.ListMissions(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ProgressSummary, len(missions))
	g, gctx := errgroup.WithContext(ctx)
	for i, mission := range missions {
		g.Go(func() error {
			row := domain.ProgressSummary{
				MissionID:      mission.ID,
				TotalQuestions: mission.TotalQuestions,
			}
			progress, err := s.store.GetProgress(gctx, userID, mission.ID)
			switch {
			case err == nil:
				row.QuestionsCompleted = progress.QuestionsCompleted
				row.IsCompleted = progress.IsCompleted
				row.TotalScore = progress.TotalScore
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// MaxLeaderboardLimit bounds a single leaderboard read.
const MaxLeaderboardLimit = 1000

// Leaderboard returns the top users by total score. A limit of zero or less yields no rows;
// limits above MaxLeaderboardLimit are clamped.
func (s *QueryService) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		return []domain.User{}, nil
	}
	limit = min(limit, MaxLeaderboardLimit)
	return s.store.TopUsers(ctx, limit)
}

func (s *QueryService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListAnswers returns the user's answer log in submission order.
func (s *QueryService) ListAnswers(ctx context.Context, userID string) ([]domain.UserAnswer, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListAnswers(ctx, userID)
}
