package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mission-quiz-service/internal/domain"
)

func (s *Store) GetProgress(ctx context.Context, userID, missionID string) (domain.UserMissionProgress, error) {
	p := domain.UserMissionProgress{UserID: userID, MissionID: missionID}
	var lastPlayed int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, questions_completed, total_score, is_completed, last_played_at_unix_nano
		 FROM user_mission_progress WHERE user_id = ? AND mission_id = ?`,
		userID, missionID,
	).Scan(&p.ID, &p.QuestionsCompleted, &p.TotalScore, &p.IsCompleted, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserMissionProgress{}, domain.NotFound(domain.EntityProgress, userID+"/"+missionID)
	}
	if err != nil {
		return domain.UserMissionProgress{}, fmt.Errorf("load progress: %w", err)
	}
	p.LastPlayedAt = time.Unix(0, lastPlayed).UTC()
	return p, nil
}

// UpsertProgress keeps the row id of an existing record; ON CONFLICT never touches it.
func (s *Store) UpsertProgress(ctx context.Context, userID, missionID string, questionsCompleted, totalScore int, isCompleted bool) (domain.UserMissionProgress, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_mission_progress (id, user_id, mission_id, questions_completed, total_score, is_completed, last_played_at_unix_nano)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, mission_id) DO UPDATE SET
			questions_completed = excluded.questions_completed,
			total_score = excluded.total_score,
			is_completed = excluded.is_completed,
			last_played_at_unix_nano = excluded.last_played_at_unix_nano`,
		s.newID(), userID, missionID, questionsCompleted, totalScore, isCompleted, s.clock().UnixNano(),
	)
	if err != nil {
		return domain.UserMissionProgress{}, fmt.Errorf("save progress: %w", err)
	}
	return s.GetProgress(ctx, userID, missionID)
}

func (s *Store) RecordAnswer(ctx context.Context, userID, questionID, answer string, isCorrect bool, pointsEarned int) (domain.UserAnswer, error) {
	entry := domain.UserAnswer{
		ID:           s.newID(),
		UserID:       userID,
		QuestionID:   questionID,
		UserAnswer:   answer,
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
		AnsweredAt:   time.Unix(0, s.clock().UnixNano()).UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_answers (id, user_id, question_id, user_answer, is_correct, points_earned, answered_at_unix_nano)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.QuestionID, entry.UserAnswer, entry.IsCorrect, entry.PointsEarned, entry.AnsweredAt.UnixNano(),
	)
	if err != nil {
		return domain.UserAnswer{}, fmt.Errorf("record answer: %w", err)
	}
	return entry, nil
}

func (s *Store) ListAnswers(ctx context.Context, userID string) ([]domain.UserAnswer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, user_answer, is_correct, points_earned, answered_at_unix_nano
		 FROM user_answers WHERE user_id = ? ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.UserAnswer, 0)
	for rows.Next() {
		a := domain.UserAnswer{UserID: userID}
		var answeredAt int64
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.UserAnswer, &a.IsCorrect, &a.PointsEarned, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.AnsweredAt = time.Unix(0, answeredAt).UTC()
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
