package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"mission-quiz-service/internal/domain"
)

// CatalogLoader loads missions and questions (content as JSONB) from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	missions, err := l.loadMissions(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	questions, err := l.loadQuestions(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return domain.Catalog{Missions: missions, Questions: questions}, nil
}

func (l *CatalogLoader) loadMissions(ctx context.Context) ([]domain.Mission, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, title, icon, difficulty, points_per_question, description, total_questions, color_scheme
		FROM missions
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}
	defer rows.Close()

	missions := make([]domain.Mission, 0)
	for rows.Next() {
		var (
			m                  domain.Mission
			difficulty, scheme string
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Icon, &difficulty, &m.PointsPerQuestion, &m.Description, &m.TotalQuestions, &scheme); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		m.Difficulty = domain.Difficulty(difficulty)
		m.ColorScheme = domain.ColorScheme(scheme)
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

func (l *CatalogLoader) loadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, mission_id, type, question_text, content, correct_answer, explanation, news_url, "order"
		FROM questions
		ORDER BY mission_id, "order"`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var (
			q     domain.Question
			qtype string
			raw   []byte
		)
		if err := rows.Scan(&q.ID, &q.MissionID, &qtype, &q.QuestionText, &raw, &q.CorrectAnswer, &q.Explanation, &q.NewsURL, &q.Order); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(qtype)
		content, err := domain.DecodeContent(q.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("decode content of %s: %w", q.ID, err)
		}
		q.Content = content
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CatalogWriter upserts catalog snapshots.
type CatalogWriter struct {
	pool *pgxpool.Pool
}

func NewCatalogWriter(pool *pgxpool.Pool) *CatalogWriter {
	return &CatalogWriter{pool: pool}
}

// UpsertCatalog writes every mission and question in one transaction.
// Questions are validated first so a bad snapshot never reaches the table.
func (w *CatalogWriter) UpsertCatalog(ctx context.Context, catalog domain.Catalog) error {
	for _, q := range catalog.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, m := range catalog.Missions {
		_, err := tx.Exec(ctx, `
			INSERT INTO missions (id, title, icon, difficulty, points_per_question, description, total_questions, color_scheme, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				icon = EXCLUDED.icon,
				difficulty = EXCLUDED.difficulty,
				points_per_question = EXCLUDED.points_per_question,
				description = EXCLUDED.description,
				total_questions = EXCLUDED.total_questions,
				color_scheme = EXCLUDED.color_scheme,
				position = EXCLUDED.position`,
			m.ID, m.Title, m.Icon, string(m.Difficulty), m.PointsPerQuestion, m.Description, m.TotalQuestions, string(m.ColorScheme), i)
		if err != nil {
			return fmt.Errorf("upsert mission %s: %w", m.ID, err)
		}
	}

	for _, q := range catalog.Questions {
		content, err := json.Marshal(q.Content)
		if err != nil {
			return fmt.Errorf("encode content of %s: %w", q.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO questions (id, mission_id, type, question_text, content, correct_answer, explanation, news_url, "order")
			VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				mission_id = EXCLUDED.mission_id,
				type = EXCLUDED.type,
				question_text = EXCLUDED.question_text,
				content = EXCLUDED.content,
				correct_answer = EXCLUDED.correct_answer,
				explanation = EXCLUDED.explanation,
				news_url = EXCLUDED.news_url,
				"order" = EXCLUDED."order"`,
			q.ID, q.MissionID, string(q.Type), q.QuestionText, string(content), q.CorrectAnswer, q.Explanation, q.NewsURL, q.Order)
		if err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	return tx.Commit(ctx)
}
