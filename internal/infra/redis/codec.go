package redis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"mission-quiz-service/internal/domain"
)

func encodeUser(u domain.User) (map[string]interface{}, error) {
	achievements, err := json.Marshal(u.Achievements)
	if err != nil {
		return nil, fmt.Errorf("encode achievements: %w", err)
	}
	rank := ""
	if u.GlobalRank != nil {
		rank = strconv.Itoa(*u.GlobalRank)
	}
	return map[string]interface{}{
		"id":                u.ID,
		"username":          u.Username,
		"passwordHash":      u.PasswordHash,
		"totalScore":        u.TotalScore,
		"missionsCompleted": u.MissionsCompleted,
		"achievements":      string(achievements),
		"globalRank":        rank,
		"level":             u.Level,
	}, nil
}

func decodeUser(fields map[string]string) (domain.User, error) {
	u := domain.User{
		ID:           fields["id"],
		Username:     fields["username"],
		PasswordHash: fields["passwordHash"],
		Level:        fields["level"],
		Achievements: []string{},
	}
	var err error
	if u.TotalScore, err = atoiField(fields, "totalScore"); err != nil {
		return domain.User{}, err
	}
	if u.MissionsCompleted, err = atoiField(fields, "missionsCompleted"); err != nil {
		return domain.User{}, err
	}
	if raw := fields["achievements"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &u.Achievements); err != nil {
			return domain.User{}, fmt.Errorf("decode achievements: %w", err)
		}
	}
	if raw := fields["globalRank"]; raw != "" {
		rank, err := strconv.Atoi(raw)
		if err != nil {
			return domain.User{}, fmt.Errorf("decode globalRank: %w", err)
		}
		u.GlobalRank = &rank
	}
	return u, nil
}

func decodeProgress(userID, missionID string, fields map[string]string) (domain.UserMissionProgress, error) {
	p := domain.UserMissionProgress{
		ID:        fields["id"],
		UserID:    userID,
		MissionID: missionID,
	}
	var err error
	if p.QuestionsCompleted, err = atoiField(fields, "questionsCompleted"); err != nil {
		return domain.UserMissionProgress{}, err
	}
	if p.TotalScore, err = atoiField(fields, "totalScore"); err != nil {
		return domain.UserMissionProgress{}, err
	}
	if raw := fields["isCompleted"]; raw != "" {
		if p.IsCompleted, err = strconv.ParseBool(raw); err != nil {
			return domain.UserMissionProgress{}, fmt.Errorf("decode isCompleted: %w", err)
		}
	}
	if raw := fields["lastPlayedAt"]; raw != "" {
		if p.LastPlayedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return domain.UserMissionProgress{}, fmt.Errorf("decode lastPlayedAt: %w", err)
		}
	}
	return p, nil
}

func atoiField(fields map[string]string, name string) (int, error) {
	raw := fields[name]
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	return n, nil
}
