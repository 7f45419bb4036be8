package edugo

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Bank serves the static question collection. The file is read once and
// cached; a missing file degrades to an empty bank rather than a fatal
// error, and sampling from an empty bank falls back to placeholder sets.
type Bank struct {
	mu        sync.Mutex
	path      string
	questions []Question
	loaded    bool
}

// NewBank points at a bank file (JSON array of questions). Nothing is read
// until the first Load or Sample call.
func NewBank(path string) *Bank {
	return &Bank{path: path}
}

// Load reads and caches the bank. A missing file yields ErrDataUnavailable;
// callers treat that as "empty bank", not as a fault.
func (b *Bank) Load() ([]Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loaded {
		return b.questions, nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, b.path)
		}
		return nil, fmt.Errorf("failed to read bank: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse bank: %w", err)
	}

	valid := questions[:0]
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}

	b.questions = valid
	b.loaded = true
	VerboseLog("Loaded %d bank questions from %s", len(valid), b.path)
	return b.questions, nil
}

// Sample draws min(k, bank size) questions without replacement, uniformly at
// random. An empty or unavailable bank yields the placeholder question
// repeated k times.
func (b *Bank) Sample(k int) []Question {
	questions, err := b.Load()
	if err != nil {
		VerboseLog("Bank unavailable, serving placeholders: %v", err)
	}
	return sampleQuestions(questions, k)
}

// sampleQuestions draws min(k, len(pool)) without replacement; an empty pool
// degrades to the placeholder repeated k times.
func sampleQuestions(pool []Question, k int) []Question {
	if len(pool) == 0 {
		return PlaceholderSet(k)
	}
	n := k
	if len(pool) < n {
		n = len(pool)
	}
	out := make([]Question, 0, n)
	for _, idx := range rand.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}
