package edugo

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// QuestionStore sources question sets: random samples from the static bank,
// and generated sets cached by content hash.
type QuestionStore struct {
	bank       *Bank
	cache      SetCache
	generator  Generator
	genTimeout time.Duration
}

// NewQuestionStore wires the bank, the shared set cache and the generation
// collaborator. genTimeout bounds each generation call; on expiry the store
// degrades to a placeholder set like any other generation failure.
func NewQuestionStore(bank *Bank, cache SetCache, generator Generator, genTimeout time.Duration) *QuestionStore {
	return &QuestionStore{
		bank:       bank,
		cache:      cache,
		generator:  generator,
		genTimeout: genTimeout,
	}
}

// SampleBank draws up to k questions from the static bank.
func (s *QuestionStore) SampleBank(k int) []Question {
	return s.bank.Sample(k)
}

// GetOrGenerate returns the cached set for (text, n) or generates, filters
// and caches a fresh one. Generation failures are absorbed: the caller gets
// a placeholder set (uncached, so a later attempt may still succeed) and
// never an error.
func (s *QuestionStore) GetOrGenerate(ctx context.Context, text string, n int) *QuestionSet {
	key := CacheKey(text, n)

	if set, ok := s.cache.Get(key); ok {
		VerboseLog("Cache hit for %s (%d questions)", key, len(set.Questions))
		return set
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	questions, err := s.generator.Generate(genCtx, text, n)
	if err != nil {
		log.Printf("Question generation failed for %s: %v", key, err)
		return &QuestionSet{
			ID:        uuid.NewString(),
			Questions: PlaceholderSet(n),
			CreatedAt: time.Now(),
		}
	}

	valid := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if dropped := len(questions) - len(valid); dropped > 0 {
		VerboseLog("Dropped %d malformed generated questions for %s", dropped, key)
	}

	set := &QuestionSet{
		ID:        uuid.NewString(),
		Questions: valid,
		CreatedAt: time.Now(),
	}
	if err := s.cache.Put(key, set); err != nil {
		log.Printf("Failed to cache question set %s: %v", key, err)
	}
	return set
}
