// Package seed holds the built-in mission catalog and demo account.
package seed

import "mission-quiz-service/internal/domain"

// DemoUserID is the account the bundled client plays as.
const DemoUserID = "user1"

// DemoPassword is the password of the demo account.
const DemoPassword = "password"

func strPtr(s string) *string { return &s }

const digitalBrewStory = "https://www.digitalbrew.com/the-hidden-downsides-of-ai-generated-videos/"

// Catalog returns the built-in missions and questions.
func Catalog() domain.Catalog {
	return domain.Catalog{
		Missions: []domain.Mission{
			{
				ID:                "spot-fake",
				Title:             "Spot the Fake",
				Icon:              "🔍",
				Difficulty:        domain.DifficultyMedium,
				PointsPerQuestion: 10,
				Description:       "Identify AI-generated content from real content. Test your ability to detect deepfakes, synthetic text, and manipulated media.",
				TotalQuestions:    5,
				ColorScheme:       domain.ColorRed,
			},
			{
				ID:                "ethics",
				Title:             "Ethics Challenge",
				Icon:              "⚖️",
				Difficulty:        domain.DifficultyHard,
				PointsPerQuestion: 15,
				Description:       "Navigate complex ethical scenarios involving AI usage. Learn responsible AI practices and understand the impact on different communities.",
				TotalQuestions:    4,
				ColorScheme:       domain.ColorAmber,
			},
			{
				ID:                "myths",
				Title:             "Myth Busters",
				Icon:              "💡",
				Difficulty:        domain.DifficultyEasy,
				PointsPerQuestion: 8,
				Description:       "Debunk common misconceptions about AI and technology. Separate fact from fiction with evidence-based reasoning.",
				TotalQuestions:    6,
				ColorScheme:       domain.ColorEmerald,
			},
			{
				ID:                "bias",
				Title:             "Bias Detective",
				Icon:              "🧠",
				Difficulty:        domain.DifficultyExpert,
				PointsPerQuestion: 20,
				Description:       "Identify algorithmic bias and discrimination patterns in AI systems. Learn to recognize and address fairness issues.",
				TotalQuestions:    7,
				ColorScheme:       domain.ColorPurple,
			},
			{
				ID:                "privacy",
				Title:             "Privacy Guardian",
				Icon:              "🔒",
				Difficulty:        domain.DifficultyMedium,
				PointsPerQuestion: 12,
				Description:       "Master data privacy principles and protection strategies. Learn to identify privacy risks and implement safeguards.",
				TotalQuestions:    5,
				ColorScheme:       domain.ColorBlue,
			},
			{
				ID:                "misinformation",
				Title:             "Truth Seeker",
				Icon:              "📰",
				Difficulty:        domain.DifficultyHard,
				PointsPerQuestion: 18,
				Description:       "Combat misinformation and disinformation campaigns. Learn fact-checking techniques and source verification methods.",
				TotalQuestions:    8,
				ColorScheme:       domain.ColorOrange,
			},
		},
		Questions: []domain.Question{
			{
				ID:           "q1-spot-fake",
				MissionID:    "spot-fake",
				Type:         domain.QuestionImage,
				QuestionText: "Which of these images is AI-generated?",
				Content: domain.ImageContent{Options: []domain.ImageOption{
					{Key: "A", Img: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop"},
					{Key: "B", Img: "https://pixabay.com/get/g642309a52e8962ceab70082b09c898bdd50df77c9ec365390b0894105fe57c00095b22c3fdb3c7600c3624afabc78041f26e90809e58e6d494d1d9bab963e325_1280.jpg", IsAI: true},
					{Key: "C", Img: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop"},
				}},
				CorrectAnswer: "B",
				Explanation:   "AI-generated portraits often have subtle asymmetries and unnatural details in eyes, teeth, or hair patterns.",
				NewsURL:       strPtr(digitalBrewStory),
				Order:         1,
			},
			{
				ID:           "q2-spot-fake",
				MissionID:    "spot-fake",
				Type:         domain.QuestionText,
				QuestionText: "Which news headline was likely generated by AI?",
				Content: domain.TextContent{Type: domain.QuestionText, Options: []domain.TextOption{
					{Key: "A", Text: "Local Mayor Announces New Park Development Plan"},
					{Key: "B", Text: "Breaking: Revolutionary Scientists Discover Unprecedented Breakthrough in Quantum Computing Applications", IsAI: true},
					{Key: "C", Text: "Weather Alert: Heavy Rain Expected This Weekend"},
				}},
				CorrectAnswer: "B",
				Explanation:   "AI-generated headlines often use excessive superlatives and buzzwords like 'revolutionary,' 'unprecedented,' and 'breakthrough' together.",
				NewsURL:       strPtr(digitalBrewStory),
				Order:         2,
			},
		},
	}
}

// Users returns the demo account. passwordHash is stored as given.
func Users(passwordHash string) []domain.User {
	rank := 3
	return []domain.User{
		{
			ID:                DemoUserID,
			Username:          "player",
			PasswordHash:      passwordHash,
			TotalScore:        1250,
			MissionsCompleted: 3,
			Achievements:      []string{"Mission Master", "Sharp Eye", "Speed Demon"},
			GlobalRank:        &rank,
			Level:             "Intermediate",
		},
	}
}
