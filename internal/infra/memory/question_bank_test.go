package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizdesk/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(DefaultBank())}
	repo := NewBankRepository(loader, time.Minute)

	questions, err := repo.Questions(context.Background(), domain.CategoryChildren)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 Children questions, got %d", len(questions))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.Questions(context.Background(), domain.CategoryAdults); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryUnknownCategory(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(DefaultBank()), time.Minute)
	questions, err := repo.Questions(context.Background(), domain.Category("Seniors"))
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty set for unknown category, got %d", len(questions))
	}
}

func TestFileBankLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	raw := `
Children:
  - prompt: "Which animal barks?"
    options: ["Cat", "Dog", "Cow", "Hen"]
    answer: 1
Teenagers:
  - prompt: "What does CPU stand for?"
    options: ["Central Processing Unit", "Core Power Unit", "Compute Path Utility", "None"]
    answer: 0
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	bank, err := NewFileBankLoader(path).LoadBank(context.Background())
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	children := bank[domain.CategoryChildren]
	if len(children) != 1 || children[0].Answer != 1 || children[0].Options[1] != "Dog" {
		t.Fatalf("unexpected Children bank: %+v", children)
	}
	if len(bank[domain.CategoryTeenagers]) != 1 {
		t.Fatalf("missing Teenagers entries")
	}
}

func TestFileBankLoaderMissingFile(t *testing.T) {
	if _, err := NewFileBankLoader("/does/not/exist.yaml").LoadBank(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) (map[domain.Category][]domain.Question, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}
