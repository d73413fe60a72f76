package sqlite

import (
	"context"
	"fmt"
)

func (s *Store) initSchema(ctx context.Context) error {
	// seq preserves insertion order for leaderboard ties.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			total_score INTEGER NOT NULL DEFAULT 0,
			missions_completed INTEGER NOT NULL DEFAULT 0,
			achievements_json TEXT NOT NULL DEFAULT '[]',
			global_rank INTEGER,
			level TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_mission_progress (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			mission_id TEXT NOT NULL,
			questions_completed INTEGER NOT NULL,
			total_score INTEGER NOT NULL,
			is_completed INTEGER NOT NULL,
			last_played_at_unix_nano INTEGER NOT NULL,
			PRIMARY KEY (user_id, mission_id)
		);`,
		`CREATE TABLE IF NOT EXISTS user_answers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			points_earned INTEGER NOT NULL,
			answered_at_unix_nano INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_score ON users(total_score DESC, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_user_answers_user ON user_answers(user_id, seq);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
