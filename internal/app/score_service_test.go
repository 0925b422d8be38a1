package app_test

import (
	"context"
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/memory"
)

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	scores, users := newScoreFixture(t)
	clock := newFakeClock()
	svc := app.NewScoreServiceWithClock(scores, nil, clock.now)

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	// bob ties alice's 2 later; the newer attempt ranks first.
	mustRecord(t, svc, alice.ID, 2, 3)
	mustRecord(t, svc, bob.ID, 3, 3)
	mustRecord(t, svc, bob.ID, 2, 3)

	lb, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lb.Entries))
	}
	if lb.Entries[0].Username != "bob" || lb.Entries[0].Score != 3 {
		t.Fatalf("expected bob's 3 first, got %+v", lb.Entries[0])
	}
	if lb.Entries[1].Username != "bob" || lb.Entries[1].Score != 2 {
		t.Fatalf("expected bob's newer 2 before alice's, got %+v", lb.Entries[1])
	}
	if lb.Entries[2].Username != "alice" {
		t.Fatalf("expected alice last, got %+v", lb.Entries[2])
	}
}

func TestLeaderboardLimit(t *testing.T) {
	ctx := context.Background()
	scores, users := newScoreFixture(t)
	svc := app.NewScoreService(scores, nil)
	alice := seedUser(t, users, "alice")

	for i := 0; i < 5; i++ {
		mustRecord(t, svc, alice.ID, i, 5)
	}

	lb, err := svc.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lb.Entries))
	}

	// Non-positive limits fall back to the default page size.
	lb, err = svc.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("leaderboard default: %v", err)
	}
	if len(lb.Entries) != 5 {
		t.Fatalf("expected all 5 under default limit, got %d", len(lb.Entries))
	}
}

func TestClearForUserIdempotent(t *testing.T) {
	ctx := context.Background()
	scores, users := newScoreFixture(t)
	svc := app.NewScoreService(scores, nil)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	mustRecord(t, svc, alice.ID, 1, 3)
	mustRecord(t, svc, alice.ID, 2, 3)
	mustRecord(t, svc, bob.ID, 3, 3)

	if err := svc.ClearForUser(ctx, alice.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := scores.CountForUser(alice.ID); got != 0 {
		t.Fatalf("expected alice cleared, %d left", got)
	}
	if got := scores.CountForUser(bob.ID); got != 1 {
		t.Fatalf("bob's records touched, %d left", got)
	}
	if err := svc.ClearForUser(ctx, alice.ID); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}

func TestLeaderboardCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	scores, users := newScoreFixture(t)
	cache := &stubCache{pages: map[int]domain.Leaderboard{}}
	svc := app.NewScoreService(scores, cache)
	alice := seedUser(t, users, "alice")

	mustRecord(t, svc, alice.ID, 1, 3)
	if cache.invalidations != 1 {
		t.Fatalf("expected invalidation on record, got %d", cache.invalidations)
	}

	if _, err := svc.Leaderboard(ctx, 10); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if _, ok := cache.pages[10]; !ok {
		t.Fatalf("expected page cached after miss")
	}

	lb, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("cached leaderboard: %v", err)
	}
	if cache.hits != 1 || len(lb.Entries) != 1 {
		t.Fatalf("expected cache hit, hits=%d entries=%d", cache.hits, len(lb.Entries))
	}

	if err := svc.ClearForUser(ctx, alice.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cache.invalidations != 2 {
		t.Fatalf("expected invalidation on clear, got %d", cache.invalidations)
	}
}

type stubCache struct {
	pages         map[int]domain.Leaderboard
	hits          int
	invalidations int
}

func (c *stubCache) Get(_ context.Context, limit int) (domain.Leaderboard, bool) {
	lb, ok := c.pages[limit]
	if ok {
		c.hits++
	}
	return lb, ok
}

func (c *stubCache) Set(_ context.Context, limit int, lb domain.Leaderboard) {
	c.pages[limit] = lb
}

func (c *stubCache) Invalidate(_ context.Context) {
	c.pages = map[int]domain.Leaderboard{}
	c.invalidations++
}

type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// now advances a whole second per call so every timestamp is distinct.
func (c *fakeClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newScoreFixture(t *testing.T) (*memory.ScoreRepository, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	return memory.NewScoreRepository(users), users
}

func seedUser(t *testing.T, users *memory.UserRepository, name string) domain.User {
	t.Helper()
	user, err := users.Create(context.Background(), domain.User{
		Username: name,
		Email:    name + "@example.com",
		Age:      25,
		Category: domain.CategoryAdults,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return user
}

func mustRecord(t *testing.T, svc *app.ScoreService, userID int64, score, total int) {
	t.Helper()
	if _, err := svc.Record(context.Background(), userID, score, total, domain.CategoryAdults); err != nil {
		t.Fatalf("record: %v", err)
	}
}
