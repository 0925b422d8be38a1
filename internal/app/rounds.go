package app

import (
	"math/rand"

	"quizdesk/internal/domain"
)

// BuildRounds splits a category's question set into three disjoint rounds
// after a fresh uniform shuffle; each call yields a different order. With an
// empty set every round is empty, and round 3 may be empty when fewer than
// three questions exist.
func BuildRounds(questions []domain.Question) domain.Rounds {
	bank := shuffled(questions)
	n := len(bank)
	if n == 0 {
		return domain.Rounds{}
	}

	k := n / 3
	if k < 1 {
		k = 1
	}
	mid := k * 2
	if mid > n {
		mid = n
	}
	r1, r2, r3 := bank[:k], bank[k:mid], bank[mid:]

	// Keep round 2 populated whenever more than one question exists.
	if len(r2) == 0 && n > 1 {
		r1, r2, r3 = bank[:1], bank[1:2], bank[2:]
	}
	return domain.Rounds{r1, r2, r3}
}

// shuffled returns a shuffled copy, leaving the shared bank untouched.
func shuffled(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
