package domain

import "time"

// Category is the age-derived question tier a user plays in.
type Category string

const (
	CategoryChildren  Category = "Children"
	CategoryTeenagers Category = "Teenagers"
	CategoryAdults    Category = "Adults"
)

// Categories lists every known tier in menu order.
func Categories() []Category {
	return []Category{CategoryChildren, CategoryTeenagers, CategoryAdults}
}

// CategoryForAge maps a registration age to its tier. Ages outside every band
// fall back to Adults.
func CategoryForAge(age int) Category {
	switch {
	case age >= 8 && age <= 12:
		return CategoryChildren
	case age >= 13 && age <= 19:
		return CategoryTeenagers
	default:
		return CategoryAdults
	}
}

// User is a registered player. PasswordHash is blanked before the value
// leaves the credential store.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Age          int
	Gender       string
	Category     Category
	CreatedAt    time.Time
}

// Question models an MCQ item. Answer is the zero-based index into Options.
type Question struct {
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Options []string `yaml:"options" json:"options"`
	Answer  int      `yaml:"answer" json:"answer"`
}

// Rounds holds the three disjoint partitions of one category's question set.
type Rounds [3][]Question

// ScoreRecord is one persisted outcome of a submitted quiz attempt.
type ScoreRecord struct {
	ID        int64
	UserID    int64
	Score     int
	Total     int
	Category  Category
	Timestamp time.Time
}

// LeaderboardEntry joins a score record with its owner's username.
type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// Leaderboard is the ordered top-scores view.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
