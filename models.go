package edugo

import "time"

// QuestionKind distinguishes the two question shapes the generator produces.
// The codec and the renderer switch on it exhaustively; there is no third kind.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple"
	KindTrueFalse      QuestionKind = "true_false"
)

// Question is a single quiz question. For multiple choice, each option may
// carry a leading letter label ("A. ..."); Correct then holds that label.
// For true/false, Correct holds the full option text.
type Question struct {
	Text    string       `json:"question"`
	Kind    QuestionKind `json:"type"`
	Options []string     `json:"options"`
	Correct string       `json:"correct"`
}

// Valid reports whether a question carries all required fields and at least
// one option. Generated items failing this check are discarded, not repaired.
func (q Question) Valid() bool {
	return q.Text != "" && q.Correct != "" && len(q.Options) > 0 &&
		(q.Kind == KindMultipleChoice || q.Kind == KindTrueFalse)
}

// QuestionSet is an ordered batch of questions produced by one source (a bank
// sample or a generation run). Immutable once produced; sessions consume it
// by popping from the front of their own pending queue.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// Source says where a session's active question set came from.
type Source string

const (
	SourceBank      Source = "bank"
	SourceGenerated Source = "generated"
)

// PlaceholderQuestion is the degenerate question served when a source is
// empty or generation fails. Sets built from it repeat the same instance,
// so renderers must cope with duplicate-identity questions.
func PlaceholderQuestion() Question {
	return Question{
		Text:    "This is a sample question – question generation is unavailable right now.",
		Kind:    KindTrueFalse,
		Options: []string{"True", "False"},
		Correct: "True",
	}
}

// PlaceholderSet builds a set repeating the placeholder question n times.
func PlaceholderSet(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = PlaceholderQuestion()
	}
	return qs
}
