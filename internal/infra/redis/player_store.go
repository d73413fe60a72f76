package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mission-quiz-service/internal/domain"
)

// PlayerStore keeps users, progress and answers in Redis.
// Layout:
//
//	HSET quiz:user:{id}                  id username passwordHash totalScore missionsCompleted achievements globalRank level
//	SET  quiz:username:{username} {id}   (claimed with SETNX)
//	ZADD quiz:leaderboard {totalScore} {id}
//	HSET quiz:progress:{userID}:{missionID} id questionsCompleted totalScore isCompleted lastPlayedAt
//	RPUSH quiz:answers:{userID} {answer JSON}
//
// The user hash and the leaderboard entry are updated in one MULTI so rankings never lag scores.
// Equal scores are ordered by the sorted set (reverse lexical member order).
type PlayerStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewPlayerStore(client *redis.Client) *PlayerStore {
	return &PlayerStore{client: client, clock: time.Now}
}

const leaderboardKey = "quiz:leaderboard"

func userKey(id string) string       { return "quiz:user:" + id }
func usernameKey(name string) string { return "quiz:username:" + name }

func progressKey(userID, missionID string) string {
	return "quiz:progress:" + userID + ":" + missionID
}

func answersKey(userID string) string { return "quiz:answers:" + userID }

func (s *PlayerStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if len(fields) == 0 {
		return domain.User{}, domain.NotFound(domain.EntityUser, id)
	}
	return decodeUser(fields)
}

func (s *PlayerStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	id, err := s.client.Get(ctx, usernameKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, domain.NotFound(domain.EntityUser, username)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve username: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *PlayerStore) CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Achievements: []string{},
		Level:        domain.DefaultLevel,
	}
	claimed, err := s.client.SetNX(ctx, usernameKey(username), user.ID, 0).Result()
	if err != nil {
		return domain.User{}, fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		return domain.User{}, &domain.ConflictError{Entity: domain.EntityUser, Field: "username", Value: username}
	}
	if err := s.writeUser(ctx, user); err != nil {
		s.releaseUsername(username, user.ID)
		return domain.User{}, err
	}
	return user, nil
}

// releaseUsername undoes a claim whose user write failed, together with any
// partially written user hash. It runs on a fresh context because the request
// context may be what failed the write.
func (s *PlayerStore) releaseUsername(username, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	keys := []string{usernameKey(username), userKey(id), leaderboardKey}
	if err := releaseClaim.Run(ctx, s.client, keys, id).Err(); err != nil {
		log.Printf("release username %q: %v", username, err)
	}
}

// releaseClaim only acts while the username key still points at the failed user id.
var releaseClaim = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[1], KEYS[2])
if redis.call("TYPE", KEYS[3]).ok == "zset" then
	redis.call("ZREM", KEYS[3], ARGV[1])
end
return 1`)

const releaseTimeout = 2 * time.Second

func (s *PlayerStore) writeUser(ctx context.Context, user domain.User) error {
	fields, err := encodeUser(user)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKey(user.ID), fields)
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(user.TotalScore), Member: user.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

func (s *PlayerStore) UpdateUserScore(ctx context.Context, userID string, delta int) (domain.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return domain.User{}, err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, userKey(userID), "totalScore", int64(delta))
		pipe.ZIncrBy(ctx, leaderboardKey, float64(delta), userID)
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("update score: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *PlayerStore) IncrementMissionsCompleted(ctx context.Context, userID string) (domain.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return domain.User{}, err
	}
	if err := s.client.HIncrBy(ctx, userKey(userID), "missionsCompleted", 1).Err(); err != nil {
		return domain.User{}, fmt.Errorf("count completed mission: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *PlayerStore) requireUser(ctx context.Context, userID string) error {
	n, err := s.client.Exists(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return domain.NotFound(domain.EntityUser, userID)
	}
	return nil
}

func (s *PlayerStore) GetProgress(ctx context.Context, userID, missionID string) (domain.UserMissionProgress, error) {
	fields, err := s.client.HGetAll(ctx, progressKey(userID, missionID)).Result()
	if err != nil {
		return domain.UserMissionProgress{}, fmt.Errorf("load progress: %w", err)
	}
	if len(fields) == 0 {
		return domain.UserMissionProgress{}, domain.NotFound(domain.EntityProgress, userID+"/"+missionID)
	}
	return decodeProgress(userID, missionID, fields)
}

func (s *PlayerStore) UpsertProgress(ctx context.Context, userID, missionID string, questionsCompleted, totalScore int, isCompleted bool) (domain.UserMissionProgress, error) {
	key := progressKey(userID, missionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "id", uuid.NewString())
		pipe.HSet(ctx, key, map[string]interface{}{
			"questionsCompleted": questionsCompleted,
			"totalScore":         totalScore,
			"isCompleted":        strconv.FormatBool(isCompleted),
			"lastPlayedAt":       s.clock().UTC().Format(time.RFC3339Nano),
		})
		return nil
	})
	if err != nil {
		return domain.UserMissionProgress{}, fmt.Errorf("save progress: %w", err)
	}
	return s.GetProgress(ctx, userID, missionID)
}

func (s *PlayerStore) RecordAnswer(ctx context.Context, userID, questionID, answer string, isCorrect bool, pointsEarned int) (domain.UserAnswer, error) {
	entry := domain.UserAnswer{
		ID:           uuid.NewString(),
		UserID:       userID,
		QuestionID:   questionID,
		UserAnswer:   answer,
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
		AnsweredAt:   s.clock().UTC(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return domain.UserAnswer{}, fmt.Errorf("encode answer: %w", err)
	}
	if err := s.client.RPush(ctx, answersKey(userID), raw).Err(); err != nil {
		return domain.UserAnswer{}, fmt.Errorf("record answer: %w", err)
	}
	return entry, nil
}

func (s *PlayerStore) ListAnswers(ctx context.Context, userID string) ([]domain.UserAnswer, error) {
	raws, err := s.client.LRange(ctx, answersKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	answers := make([]domain.UserAnswer, 0, len(raws))
	for _, raw := range raws {
		var a domain.UserAnswer
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (s *PlayerStore) TopUsers(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		return []domain.User{}, nil
	}
	ids, err := s.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, userKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load leaderboard users: %w", err)
	}

	users := make([]domain.User, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		u, err := decodeUser(fields)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *PlayerStore) SeedUsers(ctx context.Context, users []domain.User) error {
	for _, user := range users {
		if err := s.requireUser(ctx, user.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		claimed, err := s.client.SetNX(ctx, usernameKey(user.Username), user.ID, 0).Result()
		if err != nil {
			return fmt.Errorf("claim username: %w", err)
		}
		if !claimed {
			return &domain.ConflictError{Entity: domain.EntityUser, Field: "username", Value: user.Username}
		}
		if user.Achievements == nil {
			user.Achievements = []string{}
		}
		if err := s.writeUser(ctx, user); err != nil {
			s.releaseUsername(user.Username, user.ID)
			return err
		}
	}
	return nil
}
