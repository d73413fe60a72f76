package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"mission-quiz-service/internal/app"
	"mission-quiz-service/internal/domain"
	"mission-quiz-service/internal/infra/memory"
	"mission-quiz-service/internal/seed"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store := memory.NewStore()
	if err := store.SeedUsers(context.Background(), seed.Users("")); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	records := app.Records{Catalog: memory.NewCatalog(seed.Catalog()), PlayerStore: store}
	api := NewAPI(
		app.NewQueryService(records),
		app.NewScoringEngine(records),
		app.NewUserServiceWithCost(store, bcrypt.MinCost),
		10,
	)
	return testServer{handler: NewRouter(api), store: store}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func (s testServer) register(t *testing.T, username string) domain.User {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/users", `{"username":"`+username+`","password":"secret-pass"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	return decodeBody[domain.User](t, rec)
}

func TestListMissions(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/missions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	missions := decodeBody[[]domain.Mission](t, rec)
	if len(missions) != 6 || missions[0].ID != "spot-fake" {
		t.Fatalf("unexpected missions %+v", missions)
	}
}

func TestGetMissionNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/missions/nonexistent", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody[errorResponse](t, rec)
	if body.Message != "Mission not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestMissionQuestionsInOrder(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/missions/spot-fake/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var questions []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 2 || questions[0]["id"] != "q1-spot-fake" || questions[1]["id"] != "q2-spot-fake" {
		t.Fatalf("unexpected questions %v", questions)
	}
	content, ok := questions[0]["content"].(map[string]any)
	if !ok || content["optionA"] == nil {
		t.Fatalf("expected lettered options in content, got %v", questions[0]["content"])
	}

	if rec := srv.do(t, http.MethodGet, "/api/missions/nonexistent/questions", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown mission, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/missions/ethics/questions", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitAnswerScenario(t *testing.T) {
	srv := newTestServer(t)
	user := srv.register(t, "fresh")

	rec := srv.do(t, http.MethodPost, "/api/user/"+user.ID+"/answer", `{"questionId":"q1-spot-fake","answer":"B","timeSpent":4.2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit correct: status %d body %s", rec.Code, rec.Body.String())
	}
	first := decodeBody[domain.AnswerResult](t, rec)
	if !first.IsCorrect || first.PointsEarned != 10 || first.QuestionsCompleted != 1 || first.IsCompleted {
		t.Fatalf("unexpected first result %+v", first)
	}
	if first.NewsURL == nil || first.Explanation == "" {
		t.Fatalf("expected explanation and news url, got %+v", first)
	}

	rec = srv.do(t, http.MethodPost, "/api/user/"+user.ID+"/answer", `{"questionId":"q1-spot-fake","answer":"A"}`)
	second := decodeBody[domain.AnswerResult](t, rec)
	if second.IsCorrect || second.PointsEarned != 0 || second.QuestionsCompleted != 2 || second.IsCompleted {
		t.Fatalf("unexpected second result %+v", second)
	}

	rec = srv.do(t, http.MethodGet, "/api/user/"+user.ID, "")
	got := decodeBody[domain.User](t, rec)
	if got.TotalScore != 10 {
		t.Fatalf("expected total score 10, got %d", got.TotalScore)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/api/user/"+user.ID+"/answers", "")
	answers := decodeBody[[]domain.UserAnswer](t, rec)
	if len(answers) != 2 || answers[1].UserAnswer != "A" {
		t.Fatalf("unexpected answer log %+v", answers)
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	srv := newTestServer(t)
	user := srv.register(t, "fresh")

	tests := []struct {
		name   string
		userID string
		body   string
		status int
	}{
		{"malformed json", user.ID, `{"questionId":`, http.StatusBadRequest},
		{"missing question", user.ID, `{"answer":"B"}`, http.StatusBadRequest},
		{"missing answer", user.ID, `{"questionId":"q1-spot-fake"}`, http.StatusBadRequest},
		{"negative time", user.ID, `{"questionId":"q1-spot-fake","answer":"B","timeSpent":-1}`, http.StatusBadRequest},
		{"unknown question", user.ID, `{"questionId":"nope","answer":"B"}`, http.StatusNotFound},
		{"unknown user", "ghost", `{"questionId":"q1-spot-fake","answer":"B"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/user/"+tt.userID+"/answer", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body %s", tt.status, rec.Code, rec.Body.String())
			}
			if body := decodeBody[errorResponse](t, rec); body.Message == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestUserProgressSummary(t *testing.T) {
	srv := newTestServer(t)
	user := srv.register(t, "fresh")
	srv.do(t, http.MethodPost, "/api/user/"+user.ID+"/answer", `{"questionId":"q1-spot-fake","answer":"B"}`)

	rec := srv.do(t, http.MethodGet, "/api/user/"+user.ID+"/progress", "")
	rows := decodeBody[[]domain.ProgressSummary](t, rec)
	if len(rows) != 6 {
		t.Fatalf("expected one row per mission, got %d", len(rows))
	}
	if rows[0].MissionID != "spot-fake" || rows[0].QuestionsCompleted != 1 || rows[0].TotalScore != 10 || rows[0].TotalQuestions != 5 {
		t.Fatalf("unexpected spot-fake row %+v", rows[0])
	}
	if rows[1].QuestionsCompleted != 0 || rows[1].IsCompleted {
		t.Fatalf("expected zero row, got %+v", rows[1])
	}
}

func TestRegisterConflictAndValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "newbie")

	if rec := srv.do(t, http.MethodPost, "/api/users", `{"username":"newbie","password":"secret-pass"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/users", `{"username":"player","password":"secret-pass"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for seeded username, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/users", `{"username":"x","password":"secret-pass"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/users", `{"username":"nopass"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterTrimsUsername(t *testing.T) {
	srv := newTestServer(t)
	user := srv.register(t, "  padded  ")
	if user.Username != "padded" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if rec := srv.do(t, http.MethodPost, "/api/users", `{"username":"padded","password":"secret-pass"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for trimmed duplicate, got %d", rec.Code)
	}
}

func TestLeaderboardLimits(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "fresh")
	srv.register(t, "another")

	rec := srv.do(t, http.MethodGet, "/api/leaderboard", "")
	entries := decodeBody[[]domain.LeaderboardEntry](t, rec)
	if len(entries) != 3 || entries[0].ID != seed.DemoUserID || entries[0].Rank != 1 || entries[2].Rank != 3 {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	rec = srv.do(t, http.MethodGet, "/api/leaderboard?limit=1", "")
	if entries := decodeBody[[]domain.LeaderboardEntry](t, rec); len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	rec = srv.do(t, http.MethodGet, "/api/leaderboard?limit=1000", "")
	if entries := decodeBody[[]domain.LeaderboardEntry](t, rec); rec.Code != http.StatusOK || len(entries) != 3 {
		t.Fatalf("expected all 3 entries at the maximum limit, got %d %d", rec.Code, len(entries))
	}

	rec = srv.do(t, http.MethodGet, "/api/leaderboard?limit=0", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty leaderboard, got %d %s", rec.Code, rec.Body.String())
	}

	for _, bad := range []string{"abc", "-1", "1001", "1000000000000"} {
		if rec := srv.do(t, http.MethodGet, "/api/leaderboard?limit="+bad, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	if rec := srv.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	srv.do(t, http.MethodGet, "/api/missions", "")

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `quiz_http_requests_total{code="200",route="GET /api/missions"}`) {
		t.Fatalf("expected request counter in metrics output")
	}
}
