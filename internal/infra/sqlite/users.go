package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"mission-quiz-service/internal/domain"
)

const userColumns = `id, username, password_hash, total_score, missions_completed, achievements_json, global_rank, level`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		achievements string
		rank         sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.TotalScore, &u.MissionsCompleted, &achievements, &rank, &u.Level); err != nil {
		return domain.User{}, err
	}
	if err := json.Unmarshal([]byte(achievements), &u.Achievements); err != nil {
		return domain.User{}, fmt.Errorf("decode achievements: %w", err)
	}
	if u.Achievements == nil {
		u.Achievements = []string{}
	}
	if rank.Valid {
		r := int(rank.Int64)
		u.GlobalRank = &r
	}
	return u, nil
}

func (s *Store) getUserWhere(ctx context.Context, column, value string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.NotFound(domain.EntityUser, value)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.getUserWhere(ctx, "id", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.getUserWhere(ctx, "username", username)
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error) {
	user := domain.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: passwordHash,
		Achievements: []string{},
		Level:        domain.DefaultLevel,
	}
	if err := insertUser(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertUser(ctx context.Context, db execer, user domain.User) error {
	achievements, err := json.Marshal(user.Achievements)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	var rank sql.NullInt64
	if user.GlobalRank != nil {
		rank = sql.NullInt64{Int64: int64(*user.GlobalRank), Valid: true}
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.TotalScore, user.MissionsCompleted, string(achievements), rank, user.Level,
	)
	if isUniqueViolation(err) {
		return &domain.ConflictError{Entity: domain.EntityUser, Field: "username", Value: user.Username}
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *Store) UpdateUserScore(ctx context.Context, userID string, delta int) (domain.User, error) {
	return s.updateUser(ctx, userID, `UPDATE users SET total_score = total_score + ? WHERE id = ?`, delta, userID)
}

func (s *Store) IncrementMissionsCompleted(ctx context.Context, userID string) (domain.User, error) {
	return s.updateUser(ctx, userID, `UPDATE users SET missions_completed = missions_completed + 1 WHERE id = ?`, userID)
}

func (s *Store) updateUser(ctx context.Context, userID, stmt string, args ...any) (domain.User, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.User{}, domain.NotFound(domain.EntityUser, userID)
	}
	return s.GetUser(ctx, userID)
}

func (s *Store) TopUsers(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		return []domain.User{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY total_score DESC, seq ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SeedUsers runs in one transaction; users whose ID already exists are skipped.
func (s *Store) SeedUsers(ctx context.Context, users []domain.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, user := range users {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, user.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if exists > 0 {
			continue
		}
		if user.Achievements == nil {
			user.Achievements = []string{}
		}
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
	}
	return tx.Commit()
}
