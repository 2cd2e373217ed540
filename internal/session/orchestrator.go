package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"voicebridge/internal/audio"
	"voicebridge/internal/history"
	"voicebridge/internal/lang"
	"voicebridge/internal/translation"
)

// Slot names the two language selections of a session.
type Slot string

const (
	SlotFrom Slot = "from"
	SlotTo   Slot = "to"
)

// State is a snapshot of one session's mutable fields.
type State struct {
	InputText    string `json:"input_text"`
	OutputText   string `json:"output_text"`
	FromLanguage string `json:"from_language"`
	ToLanguage   string `json:"to_language"`
	Recording    bool   `json:"recording"`
}

// Orchestrator owns the state of one translation session and sequences the
// remote clients and the history store in response to user actions. All
// state mutation goes through its methods; observers subscribe to snapshots
// instead of reading shared fields.
//
// Each operation kind allows at most one in-flight invocation; an
// overlapping trigger fails with translation.ErrBusy instead of racing.
type Orchestrator struct {
	logger      *slog.Logger
	translator  translation.Translator
	transcriber translation.Transcriber
	synthesizer translation.Synthesizer
	recorder    audio.Recorder
	history     *history.Store

	mu            sync.Mutex
	state         State
	recording     audio.Recording
	translateBusy bool
	speakBusy     bool

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// NewOrchestrator constructs an Orchestrator with default language selection.
func NewOrchestrator(
	logger *slog.Logger,
	translator translation.Translator,
	transcriber translation.Transcriber,
	synthesizer translation.Synthesizer,
	recorder audio.Recorder,
	store *history.Store,
) *Orchestrator {
	return &Orchestrator{
		logger:      logger,
		translator:  translator,
		transcriber: transcriber,
		synthesizer: synthesizer,
		recorder:    recorder,
		history:     store,
		state: State{
			FromLanguage: lang.DefaultFrom,
			ToLanguage:   lang.DefaultTo,
		},
		subs: make(map[int]chan State),
	}
}

// State returns a snapshot of the session.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetInput replaces the input text, as if the user typed it.
func (o *Orchestrator) SetInput(text string) {
	o.mu.Lock()
	o.state.InputText = text
	snapshot := o.state
	o.mu.Unlock()

	o.notify(snapshot)
}

// SelectLanguage sets the language for one slot.
func (o *Orchestrator) SelectLanguage(slot Slot, choice string) error {
	if !lang.IsSupported(choice) {
		return fmt.Errorf("%w: %q", translation.ErrUnknownLanguage, choice)
	}

	o.mu.Lock()
	switch slot {
	case SlotFrom:
		o.state.FromLanguage = choice
	case SlotTo:
		o.state.ToLanguage = choice
	default:
		o.mu.Unlock()
		return fmt.Errorf("unknown language slot %q", slot)
	}
	snapshot := o.state
	o.mu.Unlock()

	o.notify(snapshot)
	return nil
}

// Translate sends the current input through the translator. On success the
// output text is replaced and a record is appended to the history log. On
// failure the output text keeps its prior value and nothing is appended.
func (o *Orchestrator) Translate(ctx context.Context) error {
	o.mu.Lock()
	if o.translateBusy {
		o.mu.Unlock()
		return translation.ErrBusy
	}
	if strings.TrimSpace(o.state.InputText) == "" {
		o.mu.Unlock()
		return translation.ErrEmptyInput
	}
	req := translation.Request{
		Text: o.state.InputText,
		From: o.state.FromLanguage,
		To:   o.state.ToLanguage,
	}
	o.translateBusy = true
	o.mu.Unlock()

	defer o.clearTranslateBusy()

	output, err := o.translator.Translate(ctx, req)
	if err != nil {
		o.logger.Error("translation failed",
			slog.String("from", req.From),
			slog.String("to", req.To),
			slog.String("error", err.Error()),
		)
		return err
	}

	o.mu.Lock()
	o.state.OutputText = output
	snapshot := o.state
	o.mu.Unlock()
	o.notify(snapshot)

	rec := translation.Record{
		Input:  req.Text,
		Output: output,
		From:   req.From,
		To:     req.To,
	}
	if err := o.history.Append(ctx, rec); err != nil {
		// The translation already succeeded; a failed append must not
		// undo it or fail the operation.
		o.logger.Error("history append failed", slog.String("error", err.Error()))
	}
	return nil
}

// StartRecording acquires the microphone. Starting while already recording
// is a no-op.
func (o *Orchestrator) StartRecording(ctx context.Context) error {
	o.mu.Lock()
	if o.recording != nil {
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	rec, err := o.recorder.Start(ctx)
	if err != nil {
		o.logger.Error("start recording failed", slog.String("error", err.Error()))
		return err
	}

	o.mu.Lock()
	if o.recording != nil {
		// A concurrent start won; release the extra capture.
		o.mu.Unlock()
		if _, stopErr := rec.Stop(ctx); stopErr != nil {
			o.logger.Warn("discard extra recording failed", slog.String("error", stopErr.Error()))
		}
		return nil
	}
	o.recording = rec
	o.state.Recording = true
	snapshot := o.state
	o.mu.Unlock()

	o.notify(snapshot)
	return nil
}

// StopRecording releases the microphone and transcribes the capture. The
// transcript replaces the input text, discarding any typed input. Stopping
// while idle is a no-op. A failed transcription leaves the input unchanged.
func (o *Orchestrator) StopRecording(ctx context.Context) error {
	o.mu.Lock()
	rec := o.recording
	if rec == nil {
		o.mu.Unlock()
		return nil
	}
	o.recording = nil
	o.state.Recording = false
	snapshot := o.state
	o.mu.Unlock()
	o.notify(snapshot)

	capturePath, err := rec.Stop(ctx)
	if err != nil {
		o.logger.Error("stop recording failed", slog.String("error", err.Error()))
		return err
	}

	transcript, err := o.transcriber.Transcribe(ctx, capturePath)
	if err != nil {
		o.logger.Error("transcription failed", slog.String("error", err.Error()))
		return err
	}

	o.mu.Lock()
	o.state.InputText = transcript
	snapshot = o.state
	o.mu.Unlock()
	o.notify(snapshot)
	return nil
}

// Speak synthesizes and plays the current output text in the voice mapped
// from the target language. An empty output is a no-op.
func (o *Orchestrator) Speak(ctx context.Context) error {
	o.mu.Lock()
	if o.state.OutputText == "" {
		o.mu.Unlock()
		return nil
	}
	if o.speakBusy {
		o.mu.Unlock()
		return translation.ErrBusy
	}
	text := o.state.OutputText
	language := o.state.ToLanguage
	o.speakBusy = true
	o.mu.Unlock()

	defer o.clearSpeakBusy()

	if err := o.synthesizer.Speak(ctx, text, language); err != nil {
		o.logger.Error("synthesis failed",
			slog.String("language", language),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Close releases any active recording. Called when the session's screen
// unmounts.
func (o *Orchestrator) Close(ctx context.Context) {
	o.mu.Lock()
	rec := o.recording
	o.recording = nil
	o.state.Recording = false
	o.mu.Unlock()

	if rec != nil {
		if _, err := rec.Stop(ctx); err != nil {
			o.logger.Warn("release recording failed", slog.String("error", err.Error()))
		}
	}

	o.subMu.Lock()
	for id, ch := range o.subs {
		close(ch)
		delete(o.subs, id)
	}
	o.subMu.Unlock()
}

// Subscribe returns a channel of state snapshots and a cancel function.
// Snapshots are dropped rather than blocking a slow observer.
func (o *Orchestrator) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)

	o.subMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.subMu.Unlock()

	cancel := func() {
		o.subMu.Lock()
		if sub, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(sub)
		}
		o.subMu.Unlock()
	}
	return ch, cancel
}

func (o *Orchestrator) notify(snapshot State) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	for _, ch := range o.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (o *Orchestrator) clearTranslateBusy() {
	o.mu.Lock()
	o.translateBusy = false
	o.mu.Unlock()
}

func (o *Orchestrator) clearSpeakBusy() {
	o.mu.Lock()
	o.speakBusy = false
	o.mu.Unlock()
}
