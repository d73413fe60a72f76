package domain

import "time"

// Difficulty grades a mission.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// ColorScheme is the accent colour a client renders a mission card with.
type ColorScheme string

const (
	ColorRed     ColorScheme = "red"
	ColorAmber   ColorScheme = "amber"
	ColorEmerald ColorScheme = "emerald"
	ColorPurple  ColorScheme = "purple"
	ColorBlue    ColorScheme = "blue"
	ColorOrange  ColorScheme = "orange"
)

func (c ColorScheme) Valid() bool {
	switch c {
	case ColorRed, ColorAmber, ColorEmerald, ColorPurple, ColorBlue, ColorOrange:
		return true
	}
	return false
}

// DefaultLevel is assigned to freshly registered users.
const DefaultLevel = "Beginner"

// User is a player and their cumulative standing.
type User struct {
	ID                string   `json:"id"`
	Username          string   `json:"username"`
	PasswordHash      string   `json:"-"`
	TotalScore        int      `json:"totalScore"`
	MissionsCompleted int      `json:"missionsCompleted"`
	Achievements      []string `json:"achievements"`
	GlobalRank        *int     `json:"globalRank"`
	Level             string   `json:"level"`
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (u User) Clone() User {
	out := u
	out.Achievements = append([]string{}, u.Achievements...)
	if u.GlobalRank != nil {
		rank := *u.GlobalRank
		out.GlobalRank = &rank
	}
	return out
}

// Mission is a themed, ordered set of questions.
type Mission struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Icon              string      `json:"icon"`
	Difficulty        Difficulty  `json:"difficulty"`
	PointsPerQuestion int         `json:"pointsPerQuestion"`
	Description       string      `json:"description"`
	TotalQuestions    int         `json:"totalQuestions"`
	ColorScheme       ColorScheme `json:"colorScheme"`
}

// Catalog is a snapshot of the read-only reference data.
type Catalog struct {
	Missions  []Mission  `json:"missions"`
	Questions []Question `json:"questions"`
}

// UserMissionProgress is the per (user, mission) completion record.
type UserMissionProgress struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	MissionID          string    `json:"missionId"`
	QuestionsCompleted int       `json:"questionsCompleted"`
	TotalScore         int       `json:"totalScore"`
	IsCompleted        bool      `json:"isCompleted"`
	LastPlayedAt       time.Time `json:"lastPlayedAt"`
}

// UserAnswer is an immutable entry in the answer log.
type UserAnswer struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	QuestionID   string    `json:"questionId"`
	UserAnswer   string    `json:"userAnswer"`
	IsCorrect    bool      `json:"isCorrect"`
	PointsEarned int       `json:"pointsEarned"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

// AnswerSubmission is one answer sent by a client.
// TimeSpent is accepted but not used in scoring.
type AnswerSubmission struct {
	QuestionID string
	Answer     string
	TimeSpent  *float64
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	IsCorrect          bool    `json:"isCorrect"`
	PointsEarned       int     `json:"pointsEarned"`
	Explanation        string  `json:"explanation"`
	NewsURL            *string `json:"newsUrl,omitempty"`
	QuestionsCompleted int     `json:"questionsCompleted"`
	IsCompleted        bool    `json:"isCompleted"`
}

// ProgressSummary is one row of a user's per-mission progress overview.
type ProgressSummary struct {
	MissionID          string `json:"missionId"`
	QuestionsCompleted int    `json:"questionsCompleted"`
	TotalQuestions     int    `json:"totalQuestions"`
	IsCompleted        bool   `json:"isCompleted"`
	TotalScore         int    `json:"totalScore"`
}

// LeaderboardEntry is a ranked user row.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	ID         string `json:"id"`
	Username   string `json:"username"`
	TotalScore int    `json:"totalScore"`
	Level      string `json:"level"`
}

// RankUsers converts users already sorted by score into 1-based ranked entries.
func RankUsers(users []User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			ID:         u.ID,
			Username:   u.Username,
			TotalScore: u.TotalScore,
			Level:      u.Level,
		})
	}
	return entries
}
