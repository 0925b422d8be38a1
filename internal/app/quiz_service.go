package app

import (
	"context"

	"quizdesk/internal/domain"
)

// QuestionRepository loads the question set for a category. An unknown
// category yields an empty set, not an error.
type QuestionRepository interface {
	Questions(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// QuizService wires the question bank, the round builder and the score ledger
// into quiz-attempt use cases.
type QuizService struct {
	bank   QuestionRepository
	scores *ScoreService
}

func NewQuizService(bank QuestionRepository, scores *ScoreService) *QuizService {
	return &QuizService{bank: bank, scores: scores}
}

// Rounds returns the three-way split of a category's question set.
func (s *QuizService) Rounds(ctx context.Context, category domain.Category) (domain.Rounds, error) {
	questions, err := s.bank.Questions(ctx, category)
	if err != nil {
		return domain.Rounds{}, err
	}
	return BuildRounds(questions), nil
}

// StartQuiz builds a session for the requested 1-based round. An out-of-range
// or empty round falls back to the category's entire question set. The
// selected list is re-shuffled independently of the round split, and a
// countdown of timeLimitMinutes is armed when positive.
func (s *QuizService) StartQuiz(ctx context.Context, user domain.User, category domain.Category, roundNumber int, timeLimitMinutes float64) (*Session, error) {
	questions, err := s.bank.Questions(ctx, category)
	if err != nil {
		return nil, err
	}

	rounds := BuildRounds(questions)
	var selected []domain.Question
	if roundNumber >= 1 && roundNumber <= len(rounds) {
		selected = rounds[roundNumber-1]
	}
	if len(selected) == 0 {
		selected = questions
	}
	selected = shuffled(selected)

	timerSeconds := 0
	if timeLimitMinutes > 0 {
		timerSeconds = int(timeLimitMinutes * 60)
	}
	return newSession(user, category, selected, timerSeconds, s.scores), nil
}
