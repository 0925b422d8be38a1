package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"quizdesk/internal/domain"
)

const keyPrefix = "quizdesk:leaderboard:"

// LeaderboardCache caches leaderboard pages in Redis, one key per page limit.
// It is best-effort: failures are logged and the caller falls through to the
// score store.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	rnd    *rand.Rand
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) Get(ctx context.Context, limit int) (domain.Leaderboard, bool) {
	raw, err := c.client.Get(ctx, c.key(limit)).Bytes()
	if err != nil {
		return domain.Leaderboard{}, false
	}
	var lb domain.Leaderboard
	if err := json.Unmarshal(raw, &lb); err != nil {
		return domain.Leaderboard{}, false
	}
	return lb, true
}

func (c *LeaderboardCache) Set(ctx context.Context, limit int, lb domain.Leaderboard) {
	raw, err := json.Marshal(lb)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(limit), raw, c.ttlWithJitter()).Err(); err != nil {
		log.Printf("leaderboard cache set failed: %v", err)
	}
}

// Invalidate drops every cached page; called after any score write.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("leaderboard cache invalidate failed: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("leaderboard cache scan failed: %v", err)
	}
}

func (c *LeaderboardCache) key(limit int) string {
	return keyPrefix + strconv.Itoa(limit)
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
