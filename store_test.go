package edugo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingGenerator records calls and serves a fixed batch.
type countingGenerator struct {
	calls     atomic.Int64
	questions []Question
	err       error
}

func (g *countingGenerator) Generate(ctx context.Context, text string, n int) ([]Question, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func newTestStore(t *testing.T, gen Generator) *QuestionStore {
	t.Helper()
	cache, err := NewFileCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	bank := NewBank("does-not-exist.json")
	return NewQuestionStore(bank, cache, gen, 30*time.Second)
}

func TestGetOrGenerateCachesResult(t *testing.T) {
	gen := &countingGenerator{questions: []Question{
		{Text: "q1", Kind: KindTrueFalse, Options: []string{"True", "False"}, Correct: "True"},
		{Text: "q2", Kind: KindTrueFalse, Options: []string{"True", "False"}, Correct: "False"},
	}}
	store := newTestStore(t, gen)

	first := store.GetOrGenerate(context.Background(), "lecture notes", 6)
	second := store.GetOrGenerate(context.Background(), "lecture notes", 6)

	if gen.calls.Load() != 1 {
		t.Errorf("Generator should run once for identical input, ran %d times", gen.calls.Load())
	}
	if first.ID != second.ID {
		t.Errorf("Cached call must return the stored set unchanged: %s vs %s", first.ID, second.ID)
	}
	if len(second.Questions) != 2 {
		t.Errorf("Expected 2 questions from cache, got %d", len(second.Questions))
	}
}

func TestGetOrGenerateFiltersMalformed(t *testing.T) {
	gen := &countingGenerator{questions: []Question{
		{Text: "ok", Kind: KindTrueFalse, Options: []string{"True", "False"}, Correct: "True"},
		{Text: "", Kind: KindTrueFalse, Options: []string{"True"}, Correct: "True"},
		{Text: "no options", Kind: KindMultipleChoice, Correct: "A"},
		{Text: "bad kind", Kind: "essay", Options: []string{"x"}, Correct: "x"},
	}}
	store := newTestStore(t, gen)

	set := store.GetOrGenerate(context.Background(), "text", 6)
	if len(set.Questions) != 1 || set.Questions[0].Text != "ok" {
		t.Errorf("Expected malformed items dropped, got %+v", set.Questions)
	}
}

func TestGetOrGenerateAbsorbsFailure(t *testing.T) {
	gen := &countingGenerator{err: errors.New("model unavailable")}
	store := newTestStore(t, gen)

	set := store.GetOrGenerate(context.Background(), "text", 4)
	if len(set.Questions) != 4 {
		t.Fatalf("Expected a 4-question placeholder set, got %d", len(set.Questions))
	}
	for _, q := range set.Questions {
		if q.Text != PlaceholderQuestion().Text {
			t.Errorf("Expected placeholder, got %q", q.Text)
		}
	}
}

func TestGenerationFailureIsNotCached(t *testing.T) {
	cache, err := NewFileCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	bank := NewBank("does-not-exist.json")

	failing := &countingGenerator{err: errors.New("boom")}
	store := NewQuestionStore(bank, cache, failing, 30*time.Second)
	store.GetOrGenerate(context.Background(), "text", 6)

	// A later run against the same cache must still invoke the generator.
	working := &countingGenerator{questions: []Question{
		{Text: "q1", Kind: KindTrueFalse, Options: []string{"True", "False"}, Correct: "True"},
	}}
	store2 := NewQuestionStore(bank, cache, working, 30*time.Second)
	set := store2.GetOrGenerate(context.Background(), "text", 6)

	if working.calls.Load() != 1 {
		t.Error("Failure must not poison the cache")
	}
	if len(set.Questions) != 1 || set.Questions[0].Text != "q1" {
		t.Errorf("Expected regenerated set, got %+v", set.Questions)
	}
}
