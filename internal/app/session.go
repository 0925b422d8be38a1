package app

import (
	"context"
	"sync"

	"quizdesk/internal/domain"
)

// Unanswered is the sentinel stored in an answer slot that was cleared or
// never set.
const Unanswered = -1

// Recorder persists the outcome of a submitted session.
type Recorder interface {
	Record(ctx context.Context, userID int64, score, total int, category domain.Category) (domain.ScoreRecord, error)
}

// Session tracks one in-progress quiz attempt: the selected questions, one
// answer slot per question, the cursor position and an optional countdown.
// It is safe for use from the caller's input loop and a ticker goroutine.
type Session struct {
	mu        sync.Mutex
	user      domain.User
	category  domain.Category
	questions []domain.Question
	answers   []int
	position  int
	remaining int
	armed     bool
	submitted bool
	recorder  Recorder
}

func newSession(user domain.User, category domain.Category, questions []domain.Question, timerSeconds int, recorder Recorder) *Session {
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Session{
		user:      user,
		category:  category,
		questions: questions,
		answers:   answers,
		remaining: timerSeconds,
		armed:     timerSeconds > 0,
		recorder:  recorder,
	}
}

// RecordAnswer stores the chosen option for the current question, replacing
// any earlier choice. Unanswered clears the slot.
func (s *Session) RecordAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return domain.ErrQuizSubmitted
	}
	if len(s.questions) == 0 {
		return domain.ErrNoQuestions
	}
	if option != Unanswered && (option < 0 || option >= len(s.questions[s.position].Options)) {
		return domain.ErrValidation
	}
	s.answers[s.position] = option
	return nil
}

// Next advances the cursor by one question. It never moves past the last one.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(s.position + 1)
}

// Prev moves the cursor back by one question. It never moves before the first.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(s.position - 1)
}

// JumpTo moves the cursor to an explicit question index. Out-of-range indexes
// are ignored.
func (s *Session) JumpTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(index)
}

func (s *Session) moveLocked(index int) {
	if s.submitted {
		return
	}
	if index < 0 || index >= len(s.questions) {
		return
	}
	s.position = index
}

// Question returns the question under the cursor along with its position and
// the session's question count. ok is false for an empty session.
func (s *Session) Question() (q domain.Question, position, count int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return domain.Question{}, 0, 0, false
	}
	return s.questions[s.position], s.position, len(s.questions), true
}

// Answer reports the recorded option for question i, or Unanswered.
func (s *Session) Answer(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.answers) {
		return Unanswered
	}
	return s.answers[i]
}

// Answered reports whether question i has a recorded choice. It backs the
// per-question completion markers in the jump bar.
func (s *Session) Answered(i int) bool {
	return s.Answer(i) != Unanswered
}

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Remaining returns the countdown seconds left and whether a countdown is
// still armed.
func (s *Session) Remaining() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining, s.armed
}

// Submitted reports whether the session has been scored.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// AdvanceSecond consumes one second of the countdown. When the countdown
// reaches zero it disarms the timer and submits the session; that happens on
// exactly one call, and every later call is a no-op.
func (s *Session) AdvanceSecond(ctx context.Context) (remaining int, expired bool, rec domain.ScoreRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed || s.submitted {
		return s.remaining, false, domain.ScoreRecord{}, nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return s.remaining, false, domain.ScoreRecord{}, nil
	}
	s.armed = false
	rec, err = s.submitLocked(ctx)
	return 0, true, rec, err
}

// Submit stops any running countdown, scores every question against its
// correct option and hands the result to the score ledger. Confirmation is
// the caller's concern. A session without questions reports ErrNoQuestions
// and records nothing.
func (s *Session) Submit(ctx context.Context) (domain.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	return s.submitLocked(ctx)
}

func (s *Session) submitLocked(ctx context.Context) (domain.ScoreRecord, error) {
	if s.submitted {
		return domain.ScoreRecord{}, domain.ErrQuizSubmitted
	}
	if len(s.questions) == 0 {
		return domain.ScoreRecord{}, domain.ErrNoQuestions
	}

	score := 0
	for i, q := range s.questions {
		if s.answers[i] != Unanswered && s.answers[i] == q.Answer {
			score++
		}
	}

	rec, err := s.recorder.Record(ctx, s.user.ID, score, len(s.questions), s.category)
	if err != nil {
		// The attempt stays open so the caller can retry the write.
		return domain.ScoreRecord{}, err
	}
	s.submitted = true
	return rec, nil
}
