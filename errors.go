package edugo

import "errors"

// Failures the engine converts into user-facing replies. None of these may
// escape an engine entry point as an unhandled fault.
var (
	ErrQuotaExceeded    = errors.New("daily upload quota exceeded")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrExtractionFailed = errors.New("could not extract text from file")
	ErrUnknownToken     = errors.New("callback token matches no option")
	ErrEmptyQuestionSet = errors.New("no questions available")
	ErrDataUnavailable  = errors.New("question bank unavailable")
)
