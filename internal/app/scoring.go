package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mission-quiz-service/internal/domain"
)

// ScoringEngine turns an answer submission into a scoring outcome and updated progress.
type ScoringEngine struct {
	store RecordStore
	locks *keyedMutex
}

func NewScoringEngine(store RecordStore) *ScoringEngine {
	return &ScoringEngine{store: store, locks: newKeyedMutex()}
}

// SubmitAnswer scores one answer for userID and advances the user's mission progress.
//
// Progress advances on every submission, right or wrong, and resubmitting a
// question counts again. Submissions for the same user are serialized so
// concurrent requests cannot lose score or progress increments.
func (e *ScoringEngine) SubmitAnswer(ctx context.Context, userID string, submission domain.AnswerSubmission) (domain.AnswerResult, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.AnswerResult{}, domain.Invalid("userId", "is required")
	}
	if submission.QuestionID == "" {
		return domain.AnswerResult{}, domain.Invalid("questionId", "is required")
	}

	question, err := e.store.GetQuestion(ctx, submission.QuestionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	mission, err := e.store.GetMission(ctx, question.MissionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	if _, err := e.store.GetUser(ctx, userID); err != nil {
		return domain.AnswerResult{}, err
	}

	isCorrect := submission.Answer == question.CorrectAnswer
	points := 0
	if isCorrect {
		points = mission.PointsPerQuestion
	}

	if _, err := e.store.RecordAnswer(ctx, userID, question.ID, submission.Answer, isCorrect, points); err != nil {
		return domain.AnswerResult{}, fmt.Errorf("record answer: %w", err)
	}

	if points > 0 {
		if _, err := e.store.UpdateUserScore(ctx, userID, points); err != nil {
			return domain.AnswerResult{}, fmt.Errorf("update user score: %w", err)
		}
	}

	var completed, missionScore int
	wasCompleted := false
	current, err := e.store.GetProgress(ctx, userID, mission.ID)
	switch {
	case err == nil:
		completed = current.QuestionsCompleted
		missionScore = current.TotalScore
		wasCompleted = current.IsCompleted
	case errors.Is(err, domain.ErrNotFound):
	default:
		return domain.AnswerResult{}, fmt.Errorf("load progress: %w", err)
	}

	completed++
	missionScore += points
	isCompleted := completed >= mission.TotalQuestions

	if _, err := e.store.UpsertProgress(ctx, userID, mission.ID, completed, missionScore, isCompleted); err != nil {
		return domain.AnswerResult{}, fmt.Errorf("save progress: %w", err)
	}

	if isCompleted && !wasCompleted {
		if _, err := e.store.IncrementMissionsCompleted(ctx, userID); err != nil {
			return domain.AnswerResult{}, fmt.Errorf("count completed mission: %w", err)
		}
	}

	return domain.AnswerResult{
		IsCorrect:          isCorrect,
		PointsEarned:       points,
		Explanation:        question.Explanation,
		NewsURL:            question.NewsURL,
		QuestionsCompleted: completed,
		IsCompleted:        isCompleted,
	}, nil
}
