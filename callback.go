package edugo

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Reserved callback tokens. Skip is matched by the engine before any option
// lookup, so it can never collide with a real option token. The continue
// tokens drive the set-exhausted prompt.
const (
	TokenSkip        = "skip"
	TokenContinueYes = "continue_yes"
	TokenContinueNo  = "continue_no"
)

// maxTokenBytes is the hard ceiling of the button callback channel. Every
// token the codec emits must fit, and decode must derive tokens the same
// way so clipped tokens still round-trip.
const maxTokenBytes = 64

// optionLabel matches a "label. body" option, where the label is a single
// letter (Latin or Hebrew, covering bank and generated material alike).
var optionLabel = regexp.MustCompile(`^([A-Za-zא-ת])\.\s*(.+)$`)

// Button pairs the text shown on an inline button with the opaque token
// sent back when it is tapped.
type Button struct {
	Text  string
	Token string
}

// EncodeOptions maps a question's options to buttons. For multiple choice
// the token is the option's embedded letter label when present, otherwise a
// label synthesized from the option's position (0 → "A", 1 → "B", ...). For
// true/false the token is the option text itself, clipped to the channel
// limit.
func EncodeOptions(q Question) []Button {
	buttons := make([]Button, 0, len(q.Options))
	switch q.Kind {
	case KindMultipleChoice:
		for i, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if m := optionLabel.FindStringSubmatch(opt); m != nil {
				buttons = append(buttons, Button{Text: opt, Token: m[1]})
				continue
			}
			label := positionLabel(i)
			buttons = append(buttons, Button{Text: label + ". " + opt, Token: label})
		}
	case KindTrueFalse:
		for _, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			buttons = append(buttons, Button{Text: opt, Token: clipToken(opt)})
		}
	}
	return buttons
}

// DecodeOption maps a received token back to the full text of the selected
// option. The engine intercepts the skip token before calling this, so a
// token that matches no option is a stale or garbled callback and yields
// ErrUnknownToken.
func DecodeOption(q Question, token string) (string, error) {
	token = strings.TrimSpace(token)
	switch q.Kind {
	case KindMultipleChoice:
		for i, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if deriveLabel(opt, i) == token {
				return opt, nil
			}
		}
	case KindTrueFalse:
		for _, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if strings.EqualFold(clipToken(opt), token) {
				return opt, nil
			}
		}
	}
	return "", ErrUnknownToken
}

// IsCorrect reports whether a received token selects the question's correct
// answer. Multiple choice compares labels, true/false compares option text
// case-insensitively.
func IsCorrect(q Question, token string) bool {
	correct := strings.TrimSpace(q.Correct)
	token = strings.TrimSpace(token)
	switch q.Kind {
	case KindMultipleChoice:
		return token == correct
	case KindTrueFalse:
		return strings.EqualFold(token, correct)
	}
	return false
}

// CorrectOptionText resolves the full option text behind q.Correct, for
// "wrong answer" feedback. Falls back to the raw Correct value when no
// option matches.
func CorrectOptionText(q Question) string {
	correct := strings.TrimSpace(q.Correct)
	switch q.Kind {
	case KindMultipleChoice:
		for i, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if deriveLabel(opt, i) == correct {
				return opt
			}
		}
	case KindTrueFalse:
		for _, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if strings.EqualFold(opt, correct) {
				return opt
			}
		}
	}
	return correct
}

// deriveLabel gives the token an option at position i encodes to: the
// embedded letter label when present, the positional label otherwise.
func deriveLabel(opt string, i int) string {
	if m := optionLabel.FindStringSubmatch(opt); m != nil {
		return m[1]
	}
	return positionLabel(i)
}

// positionLabel assigns letters A–Z by position. Question sets never get
// near 26 options, but the fallthrough keeps tokens distinct regardless.
func positionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

func clipToken(s string) string {
	if len(s) <= maxTokenBytes {
		return s
	}
	cut := maxTokenBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
