package edugo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MessageRef identifies a previously sent chat message, for locking its
// buttons or editing its text.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// ChatClient is the outbound capability of the chat platform. The engine
// never talks to the platform directly; transports implement this.
type ChatClient interface {
	SendText(chatID int64, text string) error
	// SendQuestion renders one button per option plus a final skip row.
	SendQuestion(chatID int64, text string, options []Button) error
	// SendChoice renders a bare inline-button prompt, no skip row.
	SendChoice(chatID int64, text string, options []Button) error
	// SendMenu renders a persistent reply-keyboard menu.
	SendMenu(chatID int64, text string, choices []string) error
	// LockButtons removes the interactive controls of a sent message.
	LockButtons(ref MessageRef) error
	// EditText replaces the text of a sent message.
	EditText(ref MessageRef, text string) error
}

// Document is an inbound file upload. Fetch downloads the file into dir and
// returns the local path; the engine calls it only after quota, size and
// type checks pass.
type Document struct {
	FileName string
	Size     int64
	Fetch    func(ctx context.Context, dir string) (string, error)
}

// Reply-keyboard menu entries. Matching is by leading emoji so the menu
// text can be reworded without breaking dispatch.
const (
	MenuBank   = "🗂️ Questions from the bank"
	MenuUpload = "📄 Upload a file"
)

// User-facing replies.
const (
	msgMenuUnrecognized = "I didn't recognize that choice, try /start."
	msgSendFile         = "Now send a file and I'll generate questions from it."
	msgQuota            = "You've reached the daily limit. Try again tomorrow 🙂"
	msgFileTooLarge     = "The file is too large."
	msgUnsupportedType  = "Unsupported format (PDF / DOCX / PPTX only)."
	msgNoText           = "I couldn't extract any text from the file 🤔"
	msgProcessingError  = "Something went wrong while processing the file 😞"
	msgNoQuestions      = "😢 No questions available."
	msgSkipped          = "⬇️ Question skipped."
	msgCorrect          = "✅ Correct!"
	msgCannotVerify     = "⚠️ I couldn't verify that answer."
	msgSetDone          = "🎉 You finished the set! Continue with a new one?"
	msgPoolExhausted    = "🎉 No more questions from your file."
	msgFarewell         = "Thanks! See you next time 👋"
	msgStaleQuestion    = "⌛ This question is no longer active."
)

// Engine drives the quiz flow: it dispatches inbound events, mutates
// session state under the per-user lock and emits outbound chat actions.
// Every failure is converted to a user-facing reply; entry points return an
// error only when the outbound send itself fails.
type Engine struct {
	chat     ChatClient
	store    *QuestionStore
	sessions *SessionStore
	limiter  *RateLimiter
	extract  Extractor

	maxQuestions int
	maxFileMB    int
	dailyLimit   int
	allowedTypes map[string]bool
}

// NewEngine wires the engine's collaborators.
func NewEngine(chat ChatClient, store *QuestionStore, sessions *SessionStore, limiter *RateLimiter, extract Extractor, cfg Config) *Engine {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, ext := range cfg.AllowedTypes {
		allowed[strings.ToLower(ext)] = true
	}
	return &Engine{
		chat:         chat,
		store:        store,
		sessions:     sessions,
		limiter:      limiter,
		extract:      extract,
		maxQuestions: cfg.MaxQuestions,
		maxFileMB:    cfg.MaxFileMB,
		dailyLimit:   cfg.DailyLimit,
		allowedTypes: allowed,
	}
}

// OnStart resets the user's session and presents the source-selection menu.
func (e *Engine) OnStart(ctx context.Context, userID, chatID int64) error {
	e.sessions.With(userID, func(s *Session) { s.Reset() })

	greeting := fmt.Sprintf(
		"Hello! Choose how you want to practice:\n"+
			"• 🗂️ – random questions from the built-in bank\n"+
			"• 📄 – upload a PDF / DOCX / PPTX (≤%d MB)\n"+
			"*** up to %d file uploads per day per user ***",
		e.maxFileMB, e.dailyLimit,
	)
	return e.chat.SendMenu(chatID, greeting, []string{MenuBank, MenuUpload})
}

// OnMenuText handles free-text messages: the two menu choices, or a
// fallback reply for anything else.
func (e *Engine) OnMenuText(ctx context.Context, userID, chatID int64, text string) error {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "🗂️"):
		qas := e.store.SampleBank(e.maxQuestions)
		e.sessions.With(userID, func(s *Session) {
			s.Source = SourceBank
			s.GeneratedPool = nil
		})
		return e.sendSet(userID, chatID, qas)
	case strings.HasPrefix(text, "📄"):
		e.sessions.With(userID, func(s *Session) { s.Source = SourceGenerated })
		return e.chat.SendText(chatID, msgSendFile)
	default:
		return e.chat.SendText(chatID, msgMenuUnrecognized)
	}
}

// OnDocument validates an uploaded document, extracts its text and starts a
// round of generated questions. The quota is consumed on receipt, before
// any other validation, so failed uploads still count against the limit.
func (e *Engine) OnDocument(ctx context.Context, userID, chatID int64, doc Document) error {
	if err := e.validateUpload(userID, doc); err != nil {
		return e.chat.SendText(chatID, uploadRejection(err))
	}

	text, err := e.fetchAndExtract(ctx, doc)
	if err != nil {
		log.Printf("Document processing failed for user %d: %v", userID, err)
		return e.chat.SendText(chatID, msgProcessingError)
	}
	if text == "" {
		return e.chat.SendText(chatID, msgNoText)
	}

	// The generation call can be slow; it runs outside the session lock.
	set := e.store.GetOrGenerate(ctx, text, e.maxQuestions)

	e.sessions.With(userID, func(s *Session) {
		s.Source = SourceGenerated
		s.GeneratedPool = set.Questions
	})

	// An empty set after filtering is reported as "no questions", not
	// padded with placeholders.
	var qas []Question
	if len(set.Questions) > 0 {
		qas = sampleQuestions(set.Questions, e.maxQuestions)
	}
	return e.sendSet(userID, chatID, qas)
}

// validateUpload applies the quota, size and type checks, in that order.
// Allow records the attempt, so a rejected upload still consumes quota.
func (e *Engine) validateUpload(userID int64, doc Document) error {
	if !e.limiter.Allow(userID) {
		return ErrQuotaExceeded
	}
	if doc.Size > int64(e.maxFileMB)*1024*1024 {
		return ErrFileTooLarge
	}
	if !e.allowedTypes[strings.ToLower(filepath.Ext(doc.FileName))] {
		return ErrUnsupportedFile
	}
	return nil
}

func uploadRejection(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return msgQuota
	case errors.Is(err, ErrFileTooLarge):
		return msgFileTooLarge
	case errors.Is(err, ErrUnsupportedFile):
		return msgUnsupportedType
	default:
		return msgProcessingError
	}
}

func (e *Engine) fetchAndExtract(ctx context.Context, doc Document) (string, error) {
	dir, err := os.MkdirTemp("", "edugo-upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path, err := doc.Fetch(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("failed to download document: %w", err)
	}

	text, err := e.extract.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return strings.TrimSpace(text), nil
}

// OnCallback handles a button tap: the reserved continue/skip tokens first,
// then answer grading against the question awaiting an answer.
func (e *Engine) OnCallback(ctx context.Context, userID, chatID int64, ref MessageRef, token string) error {
	token = strings.TrimSpace(token)

	// Lock the tapped message before anything else so a second tap on the
	// same message can't race the grading below.
	if err := e.chat.LockButtons(ref); err != nil {
		VerboseLog("Failed to lock buttons on %d/%d: %v", ref.ChatID, ref.MessageID, err)
	}

	switch token {
	case TokenContinueYes:
		return e.continueRound(userID, chatID)
	case TokenContinueNo:
		e.sessions.With(userID, func(s *Session) { s.Reset() })
		return e.chat.SendText(chatID, msgFarewell)
	}

	var last *Question
	e.sessions.With(userID, func(s *Session) {
		if s.LastSent != nil {
			q := *s.LastSent
			last = &q
		}
	})
	if last == nil {
		// Stale tap: answered long ago, or state lost to a restart.
		if err := e.chat.EditText(ref, msgStaleQuestion); err != nil {
			VerboseLog("Failed to edit stale message %d/%d: %v", ref.ChatID, ref.MessageID, err)
		}
		return e.chat.SendText(chatID, msgCannotVerify)
	}

	// Skip is matched before any option lookup, so it can never be
	// swallowed by a colliding option token.
	if token == TokenSkip {
		if err := e.chat.SendText(chatID, msgSkipped); err != nil {
			return err
		}
		return e.advance(userID, chatID)
	}

	if _, err := DecodeOption(*last, token); err != nil {
		// Garbled or stale token: report, leave the session untouched.
		return e.chat.SendText(chatID, msgCannotVerify)
	}

	feedback := msgCorrect
	if !IsCorrect(*last, token) {
		feedback = fmt.Sprintf("❌ Wrong answer.\nThe correct answer is: %s", CorrectOptionText(*last))
	}
	if err := e.chat.SendText(chatID, feedback); err != nil {
		return err
	}
	return e.advance(userID, chatID)
}

// advance pops the next pending question and renders it, or presents the
// set-exhausted prompt when the queue is empty.
func (e *Engine) advance(userID, chatID int64) error {
	var next *Question
	e.sessions.With(userID, func(s *Session) {
		if q, ok := s.PopPending(); ok {
			s.LastSent = &q
			next = &q
		} else {
			s.LastSent = nil
		}
	})

	if next == nil {
		return e.chat.SendChoice(chatID, msgSetDone, []Button{
			{Text: "✅ Yes", Token: TokenContinueYes},
			{Text: "❌ No", Token: TokenContinueNo},
		})
	}
	return e.chat.SendQuestion(chatID, next.Text, EncodeOptions(*next))
}

// continueRound starts a fresh set from the session's active source.
func (e *Engine) continueRound(userID, chatID int64) error {
	var source Source
	var pool []Question
	e.sessions.With(userID, func(s *Session) {
		source = s.Source
		pool = append([]Question(nil), s.GeneratedPool...)
	})

	var qas []Question
	if source == SourceGenerated {
		if len(pool) == 0 {
			return e.chat.SendText(chatID, msgPoolExhausted)
		}
		qas = sampleQuestions(pool, e.maxQuestions)
	} else {
		qas = e.store.SampleBank(e.maxQuestions)
	}
	return e.sendSet(userID, chatID, qas)
}

// sendSet installs a fresh question set and renders its first question.
// The first question is stamped as LastSent before the outbound send, so a
// reply racing the render still sees consistent state.
func (e *Engine) sendSet(userID, chatID int64, qas []Question) error {
	valid := make([]Question, 0, len(qas))
	for _, q := range qas {
		if q.Valid() {
			valid = append(valid, q)
		}
	}

	if len(valid) == 0 {
		VerboseLog("Nothing to send to user %d: %v", userID, ErrEmptyQuestionSet)
		e.sessions.With(userID, func(s *Session) {
			s.Pending = nil
			s.LastSent = nil
		})
		return e.chat.SendText(chatID, msgNoQuestions)
	}

	first := valid[0]
	e.sessions.With(userID, func(s *Session) {
		s.Pending = valid[1:]
		s.LastSent = &first
	})
	return e.chat.SendQuestion(chatID, first.Text, EncodeOptions(first))
}
