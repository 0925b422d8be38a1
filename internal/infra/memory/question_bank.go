package memory

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"quizdesk/internal/domain"
)

// BankLoader fetches the full question bank from a backing source.
type BankLoader interface {
	LoadBank(ctx context.Context) (map[domain.Category][]domain.Question, error)
}

// BankRepository caches the loaded bank with TTL to avoid repeated source
// reads. Questions are shared read-only; sessions shuffle copies.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      map[domain.Category][]domain.Question
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions returns the question set for a category. Unknown categories yield
// an empty set, not an error.
func (r *BankRepository) Questions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if r.bank != nil && r.expiresAt.After(now) {
		questions := r.bank[category]
		r.mu.RUnlock()
		return questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.bank != nil && r.expiresAt.After(now) {
			bank := r.bank
			r.mu.RUnlock()
			return bank, nil
		}
		r.mu.RUnlock()

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.bank = bank
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[domain.Category][]domain.Question)[category], nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed in-memory bank.
type StaticBankLoader struct {
	bank map[domain.Category][]domain.Question
}

func NewStaticBankLoader(bank map[domain.Category][]domain.Question) *StaticBankLoader {
	return &StaticBankLoader{bank: bank}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) (map[domain.Category][]domain.Question, error) {
	return l.bank, nil
}

// FileBankLoader reads a YAML bank file keyed by category name.
type FileBankLoader struct {
	path string
}

func NewFileBankLoader(path string) *FileBankLoader {
	return &FileBankLoader{path: path}
}

func (l *FileBankLoader) LoadBank(_ context.Context) (map[domain.Category][]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var raw map[domain.Category][]domain.Question
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return raw, nil
}

// DefaultBank is the built-in catalog used when no bank file is configured.
func DefaultBank() map[domain.Category][]domain.Question {
	return map[domain.Category][]domain.Question{
		domain.CategoryChildren: {
			{Prompt: "Which animal says 'moo'?", Options: []string{"Dog", "Cow", "Cat", "Sheep"}, Answer: 1},
			{Prompt: "How many legs does a spider have?", Options: []string{"6", "8", "4", "10"}, Answer: 1},
			{Prompt: "Which of these is a primary color?", Options: []string{"Green", "Purple", "Red", "Brown"}, Answer: 2},
		},
		domain.CategoryTeenagers: {
			{Prompt: "Which tech is used to secure websites (HTTPS)?", Options: []string{"FTP", "SSL/TLS", "SMTP", "POP3"}, Answer: 1},
			{Prompt: "What does 2FA stand for?", Options: []string{"Two-Factor Auth", "Two-File Auth", "Two-Fold Access", "None"}, Answer: 0},
			{Prompt: "Which subject studies living things?", Options: []string{"Physics", "Chemistry", "Biology", "Math"}, Answer: 2},
		},
		domain.CategoryAdults: {
			{Prompt: "Which index commonly measures inflation?", Options: []string{"CPI", "GDP", "GNP", "PPI"}, Answer: 0},
			{Prompt: "Which of these is renewable energy?", Options: []string{"Coal", "Solar", "Oil", "Natural Gas"}, Answer: 1},
			{Prompt: "What is diversification in investing mainly for?", Options: []string{"Increase taxes", "Reduce risk", "Guarantee profit", "Increase fees"}, Answer: 1},
		},
	}
}
