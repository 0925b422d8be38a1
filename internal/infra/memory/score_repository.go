package memory

import (
	"context"
	"sort"
	"sync"

	"quizdesk/internal/domain"
)

// ScoreRepository is an in-memory implementation of app.ScoreRepository. It
// joins usernames through the paired UserRepository, mirroring the sqlite
// store's join.
type ScoreRepository struct {
	users *UserRepository

	mu      sync.RWMutex
	nextID  int64
	records []domain.ScoreRecord
}

func NewScoreRepository(users *UserRepository) *ScoreRepository {
	return &ScoreRepository{users: users, nextID: 1}
}

func (r *ScoreRepository) Insert(_ context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, record)
	return record, nil
}

func (r *ScoreRepository) TopScores(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	r.mu.RLock()
	records := make([]domain.ScoreRecord, len(r.records))
	copy(records, r.records)
	r.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.LeaderboardEntry{
			Username:  r.users.usernameByID(rec.UserID),
			Score:     rec.Score,
			Total:     rec.Total,
			Category:  rec.Category,
			Timestamp: rec.Timestamp,
		})
	}
	return entries, nil
}

func (r *ScoreRepository) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

// CountForUser reports how many records a user owns; test helper.
func (r *ScoreRepository) CountForUser(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rec := range r.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n
}
