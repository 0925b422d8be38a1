package sqlite

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"quizdesk/internal/domain"
)

type scoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID        int64  `bun:"id,pk,autoincrement"`
	UserID    int64  `bun:"user_id"`
	Score     int    `bun:"score"`
	Total     int    `bun:"total"`
	Category  string `bun:"category"`
	Timestamp string `bun:"timestamp"`
}

// ScoreRepository persists score records in the embedded sqlite store.
type ScoreRepository struct {
	db *bun.DB
}

func NewScoreRepository(db *bun.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Insert(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	row := scoreRow{
		UserID:    record.UserID,
		Score:     record.Score,
		Total:     record.Total,
		Category:  string(record.Category),
		Timestamp: formatTime(record.Timestamp),
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.ScoreRecord{}, mapWriteErr("insert score", err)
	}
	record.ID = row.ID
	return record, nil
}

// TopScores joins usernames and orders by score descending, most recent
// first on ties.
func (r *ScoreRepository) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []struct {
		Username  string `bun:"username"`
		Score     int    `bun:"score"`
		Total     int    `bun:"total"`
		Category  string `bun:"category"`
		Timestamp string `bun:"timestamp"`
	}
	err := r.db.NewSelect().
		TableExpr("scores AS s").
		ColumnExpr("u.username, s.score, s.total, s.category, s.timestamp").
		Join("JOIN users AS u ON s.user_id = u.id").
		OrderExpr("s.score DESC, s.timestamp DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%w: top scores: %v", domain.ErrStorageUnavailable, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			Username:  row.Username,
			Score:     row.Score,
			Total:     row.Total,
			Category:  domain.Category(row.Category),
			Timestamp: parseTime(row.Timestamp),
		})
	}
	return entries, nil
}

// DeleteByUser removes every record owned by the user; deleting none is fine.
func (r *ScoreRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.NewDelete().Model((*scoreRow)(nil)).Where("user_id = ?", userID).Exec(ctx); err != nil {
		return mapWriteErr("delete scores", err)
	}
	return nil
}
