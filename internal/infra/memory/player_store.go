package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mission-quiz-service/internal/domain"
)

// Store is an in-memory implementation of app.PlayerStore.
type Store struct {
	now   func() time.Time
	newID func() string

	mu        sync.RWMutex
	seq       int
	users     map[string]*userRecord
	usernames map[string]string
	progress  map[progressKey]domain.UserMissionProgress
	answers   []domain.UserAnswer
}

type userRecord struct {
	user domain.User
	seq  int
}

type progressKey struct {
	userID    string
	missionID string
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:       now,
		newID:     func() string { return uuid.NewString() },
		users:     make(map[string]*userRecord),
		usernames: make(map[string]string),
		progress:  make(map[progressKey]domain.UserMissionProgress),
	}
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.NotFound(domain.EntityUser, id)
	}
	return rec.user.Clone(), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok {
		return domain.User{}, domain.NotFound(domain.EntityUser, username)
	}
	return s.users[id].user.Clone(), nil
}

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernames[username]; taken {
		return domain.User{}, &domain.ConflictError{Entity: domain.EntityUser, Field: "username", Value: username}
	}
	user := domain.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: passwordHash,
		Achievements: []string{},
		Level:        domain.DefaultLevel,
	}
	s.insertLocked(user)
	return user.Clone(), nil
}

func (s *Store) insertLocked(user domain.User) {
	s.seq++
	s.users[user.ID] = &userRecord{user: user.Clone(), seq: s.seq}
	s.usernames[user.Username] = user.ID
}

func (s *Store) UpdateUserScore(_ context.Context, userID string, delta int) (domain.User, error) {
	return s.mutateUser(userID, func(u *domain.User) { u.TotalScore += delta })
}

func (s *Store) IncrementMissionsCompleted(_ context.Context, userID string) (domain.User, error) {
	return s.mutateUser(userID, func(u *domain.User) { u.MissionsCompleted++ })
}

func (s *Store) mutateUser(userID string, fn func(*domain.User)) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.NotFound(domain.EntityUser, userID)
	}
	fn(&rec.user)
	return rec.user.Clone(), nil
}

func (s *Store) GetProgress(_ context.Context, userID, missionID string) (domain.UserMissionProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[progressKey{userID, missionID}]
	if !ok {
		return domain.UserMissionProgress{}, domain.NotFound(domain.EntityProgress, userID+"/"+missionID)
	}
	return progress, nil
}

func (s *Store) UpsertProgress(_ context.Context, userID, missionID string, questionsCompleted, totalScore int, isCompleted bool) (domain.UserMissionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{userID, missionID}
	id := s.newID()
	if existing, ok := s.progress[key]; ok {
		id = existing.ID
	}
	progress := domain.UserMissionProgress{
		ID:                 id,
		UserID:             userID,
		MissionID:          missionID,
		QuestionsCompleted: questionsCompleted,
		TotalScore:         totalScore,
		IsCompleted:        isCompleted,
		LastPlayedAt:       s.now(),
	}
	s.progress[key] = progress
	return progress, nil
}

func (s *Store) RecordAnswer(_ context.Context, userID, questionID, answer string, isCorrect bool, pointsEarned int) (domain.UserAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := domain.UserAnswer{
		ID:           s.newID(),
		UserID:       userID,
		QuestionID:   questionID,
		UserAnswer:   answer,
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
		AnsweredAt:   s.now(),
	}
	s.answers = append(s.answers, entry)
	return entry, nil
}

func (s *Store) ListAnswers(_ context.Context, userID string) ([]domain.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserAnswer, 0)
	for _, a := range s.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) TopUsers(_ context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		return []domain.User{}, nil
	}
	s.mu.RLock()
	records := make([]*userRecord, 0, len(s.users))
	for _, rec := range s.users {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].user.TotalScore != records[j].user.TotalScore {
			return records[i].user.TotalScore > records[j].user.TotalScore
		}
		return records[i].seq < records[j].seq
	})
	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]domain.User, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.user.Clone())
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Store) SeedUsers(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		if _, exists := s.users[user.ID]; exists {
			continue
		}
		if _, taken := s.usernames[user.Username]; taken {
			return &domain.ConflictError{Entity: domain.EntityUser, Field: "username", Value: user.Username}
		}
		if user.Achievements == nil {
			user.Achievements = []string{}
		}
		s.insertLocked(user)
	}
	return nil
}
