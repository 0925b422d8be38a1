package app

import (
	"context"
	"time"

	"quizdesk/internal/domain"
)

// DefaultLeaderboardLimit caps the scoreboard page when the caller passes no
// explicit limit.
const DefaultLeaderboardLimit = 50

// ScoreRepository abstracts how score records are stored. TopScores returns
// entries joined with usernames, ordered by score descending then timestamp
// descending.
type ScoreRepository interface {
	Insert(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error)
	TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// LeaderboardCache is an optional read-through cache for leaderboard pages.
// Implementations are best-effort; a miss or failure just falls through to
// the repository.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) (domain.Leaderboard, bool)
	Set(ctx context.Context, limit int, lb domain.Leaderboard)
	Invalidate(ctx context.Context)
}

// ScoreService contains the score ledger use cases.
type ScoreService struct {
	scores ScoreRepository
	cache  LeaderboardCache // nil when caching is disabled
	now    func() time.Time
}

func NewScoreService(scores ScoreRepository, cache LeaderboardCache) *ScoreService {
	return &ScoreService{scores: scores, cache: cache, now: time.Now}
}

// NewScoreServiceWithClock is test-only for deterministic timestamps.
func NewScoreServiceWithClock(scores ScoreRepository, cache LeaderboardCache, now func() time.Time) *ScoreService {
	return &ScoreService{scores: scores, cache: cache, now: now}
}

// Record appends a timestamped score record for the user.
func (s *ScoreService) Record(ctx context.Context, userID int64, score, total int, category domain.Category) (domain.ScoreRecord, error) {
	rec, err := s.scores.Insert(ctx, domain.ScoreRecord{
		UserID:    userID,
		Score:     score,
		Total:     total,
		Category:  category,
		Timestamp: s.now(),
	})
	if err != nil {
		return domain.ScoreRecord{}, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return rec, nil
}

// Leaderboard returns up to limit entries ordered by score descending, ties
// broken by most recent first. A non-positive limit means
// DefaultLeaderboardLimit.
func (s *ScoreService) Leaderboard(ctx context.Context, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if s.cache != nil {
		if lb, ok := s.cache.Get(ctx, limit); ok {
			return lb, nil
		}
	}

	entries, err := s.scores.TopScores(ctx, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	lb := domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}
	if s.cache != nil {
		s.cache.Set(ctx, limit, lb)
	}
	return lb, nil
}

// ClearForUser deletes every score record owned by the user. Clearing a user
// with no records is a no-op.
func (s *ScoreService) ClearForUser(ctx context.Context, userID int64) error {
	if err := s.scores.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
