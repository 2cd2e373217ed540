package translation

import (
	"context"
	"errors"
)

var (
	// ErrRemoteService signals a network failure, non-2xx response, or a
	// response missing an expected field from any remote client.
	ErrRemoteService = errors.New("remote service failure")

	// ErrStorage signals an unreadable or unwritable history blob.
	ErrStorage = errors.New("storage failure")

	// ErrEmptyInput signals a translate attempt with no source text.
	ErrEmptyInput = errors.New("empty input text")

	// ErrBusy signals that the same operation kind is already in flight.
	ErrBusy = errors.New("operation already in flight")

	// ErrUnknownLanguage signals a language outside the supported set.
	ErrUnknownLanguage = errors.New("unknown language")
)

// Record is one completed translation. Immutable once created; identified
// only by its position in the history sequence.
type Record struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Request carries the source text and language pair for one translation.
type Request struct {
	Text string
	From string
	To   string
}

// Translator turns source text into target-language text.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// Transcriber converts a captured audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer speaks text aloud in the voice mapped from the target language.
type Synthesizer interface {
	Speak(ctx context.Context, text, language string) error
}
