package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mission-quiz-service/internal/app"
	"mission-quiz-service/internal/domain"
	"mission-quiz-service/internal/infra/memory"
	"mission-quiz-service/internal/seed"
)

func TestSubmitCorrectThenWrongAnswer(t *testing.T) {
	ctx := context.Background()
	records, user := newTestRecords(t)
	engine := app.NewScoringEngine(records)

	result, err := engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "q1-spot-fake", Answer: "B"})
	if err != nil {
		t.Fatalf("submit correct: %v", err)
	}
	if !result.IsCorrect || result.PointsEarned != 10 || result.QuestionsCompleted != 1 || result.IsCompleted {
		t.Fatalf("unexpected first result %+v", result)
	}
	if result.NewsURL == nil || result.Explanation == "" {
		t.Fatalf("expected explanation and news url, got %+v", result)
	}
	after, _ := records.GetUser(ctx, user.ID)
	if after.TotalScore != 10 {
		t.Fatalf("expected total score 10, got %d", after.TotalScore)
	}

	// Same question again with a wrong answer still advances progress.
	result, err = engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "q1-spot-fake", Answer: "A"})
	if err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	if result.IsCorrect || result.PointsEarned != 0 || result.QuestionsCompleted != 2 || result.IsCompleted {
		t.Fatalf("unexpected second result %+v", result)
	}
	after, _ = records.GetUser(ctx, user.ID)
	if after.TotalScore != 10 {
		t.Fatalf("wrong answer must not change score, got %d", after.TotalScore)
	}

	progress, err := records.GetProgress(ctx, user.ID, "spot-fake")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.QuestionsCompleted != 2 || progress.TotalScore != 10 {
		t.Fatalf("unexpected progress %+v", progress)
	}
	answers, _ := records.ListAnswers(ctx, user.ID)
	if len(answers) != 2 {
		t.Fatalf("expected 2 logged answers, got %d", len(answers))
	}
}

func TestAnswerMatchingIsExact(t *testing.T) {
	ctx := context.Background()
	records, user := newTestRecords(t)
	engine := app.NewScoringEngine(records)

	for _, answer := range []string{"b", " B", "B ", ""} {
		result, err := engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "q2-spot-fake", Answer: answer})
		if err != nil {
			t.Fatalf("submit %q: %v", answer, err)
		}
		if result.IsCorrect || result.PointsEarned != 0 {
			t.Fatalf("answer %q should not match, got %+v", answer, result)
		}
	}
}

func TestCompletionFlipsOnLastQuestionAndStays(t *testing.T) {
	ctx := context.Background()
	records, user := newTestRecords(t)
	engine := app.NewScoringEngine(records)

	mission, _ := records.GetMission(ctx, "spot-fake")
	for i := 1; i <= mission.TotalQuestions+2; i++ {
		result, err := engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "q2-spot-fake", Answer: "B"})
		if err != nil {
			t.Fatalf("submission %d: %v", i, err)
		}
		wantCompleted := i >= mission.TotalQuestions
		if result.IsCompleted != wantCompleted {
			t.Fatalf("submission %d: expected isCompleted=%v, got %v", i, wantCompleted, result.IsCompleted)
		}
		if result.QuestionsCompleted != i {
			t.Fatalf("submission %d: expected questionsCompleted=%d, got %d", i, i, result.QuestionsCompleted)
		}
	}

	after, _ := records.GetUser(ctx, user.ID)
	if after.MissionsCompleted != 1 {
		t.Fatalf("expected mission counted once, got %d", after.MissionsCompleted)
	}
	if want := (mission.TotalQuestions + 2) * mission.PointsPerQuestion; after.TotalScore != want {
		t.Fatalf("expected total %d, got %d", want, after.TotalScore)
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	ctx := context.Background()
	records, user := newTestRecords(t)
	engine := app.NewScoringEngine(records)

	_, err := engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "missing", Answer: "B"})
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != domain.EntityQuestion {
		t.Fatalf("expected question not found, got %v", err)
	}

	_, err = engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "orphan", Answer: "A"})
	if !errors.As(err, &nf) || nf.Entity != domain.EntityMission {
		t.Fatalf("expected mission not found, got %v", err)
	}

	_, err = engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{Answer: "B"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = engine.SubmitAnswer(ctx, "ghost", domain.AnswerSubmission{QuestionID: "q1-spot-fake", Answer: "B"})
	if !errors.As(err, &nf) || nf.Entity != domain.EntityUser {
		t.Fatalf("expected user not found, got %v", err)
	}
	answers, _ := records.ListAnswers(ctx, "ghost")
	if len(answers) != 0 {
		t.Fatalf("unknown user must not leave answers behind")
	}
}

func TestConcurrentSubmissionsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	records, user := newTestRecords(t)
	engine := app.NewScoringEngine(records)

	const submissions = 50
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.SubmitAnswer(ctx, user.ID, domain.AnswerSubmission{QuestionID: "q1-spot-fake", Answer: "B"}); err != nil {
				t.Errorf("submit: %v", err)
			}
		}()
	}
	wg.Wait()

	after, _ := records.GetUser(ctx, user.ID)
	if after.TotalScore != submissions*10 {
		t.Fatalf("expected total %d, got %d", submissions*10, after.TotalScore)
	}
	progress, _ := records.GetProgress(ctx, user.ID, "spot-fake")
	if progress.QuestionsCompleted != submissions || progress.TotalScore != submissions*10 {
		t.Fatalf("lost progress updates: %+v", progress)
	}
}

func newTestRecords(t *testing.T) (app.Records, domain.User) {
	t.Helper()
	catalog := seed.Catalog()
	// A question pointing at a mission that does not exist.
	catalog.Questions = append(catalog.Questions, domain.Question{
		ID:            "orphan",
		MissionID:     "retired-mission",
		Type:          domain.QuestionText,
		Content:       domain.TextContent{Type: domain.QuestionText},
		CorrectAnswer: "A",
		Order:         1,
	})
	players := memory.NewStore()
	user, err := players.CreateUser(context.Background(), "fresh", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return app.Records{Catalog: memory.NewCatalog(catalog), PlayerStore: players}, user
}
