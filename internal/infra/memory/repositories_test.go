package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizdesk/internal/domain"
)

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice, err := repo.Create(ctx, domain.User{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if alice.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	if _, err := repo.Create(ctx, domain.User{Username: "alice", Email: "other@example.com"}); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("duplicate username: got %v", err)
	}
	if _, err := repo.Create(ctx, domain.User{Username: "alice2", Email: "alice@example.com"}); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("duplicate email: got %v", err)
	}

	if _, err := repo.FindByIdentifier(ctx, "alice@example.com"); err != nil {
		t.Fatalf("find by email identifier: %v", err)
	}
	if _, err := repo.FindByIdentifier(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryPasswordUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	alice, _ := repo.Create(ctx, domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "old"})

	if err := repo.UpdatePasswordHash(ctx, alice.ID, "new"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PasswordHash != "new" {
		t.Fatalf("hash not updated: %q", got.PasswordHash)
	}
	if err := repo.UpdatePasswordHash(ctx, 999, "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestScoreRepositoryOrderingAndDelete(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	repo := NewScoreRepository(users)
	alice, _ := users.Create(ctx, domain.User{Username: "alice", Email: "a@example.com"})
	bob, _ := users.Create(ctx, domain.User{Username: "bob", Email: "b@example.com"})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	insert := func(userID int64, score int, at time.Time) {
		if _, err := repo.Insert(ctx, domain.ScoreRecord{
			UserID: userID, Score: score, Total: 3,
			Category: domain.CategoryAdults, Timestamp: at,
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	insert(alice.ID, 2, base)
	insert(bob.ID, 3, base.Add(time.Second))
	insert(bob.ID, 2, base.Add(2*time.Second))

	entries, err := repo.TopScores(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit 2, got %d", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Score != 3 {
		t.Fatalf("unexpected leader %+v", entries[0])
	}
	if entries[1].Username != "bob" || entries[1].Score != 2 {
		t.Fatalf("tie should rank newer first, got %+v", entries[1])
	}

	if err := repo.DeleteByUser(ctx, bob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := repo.CountForUser(bob.ID); got != 0 {
		t.Fatalf("expected bob cleared, %d left", got)
	}
	if err := repo.DeleteByUser(ctx, bob.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
