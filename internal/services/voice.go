package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/ports"
)

// ErrSpeechStartTimeout means capture claimed to start but produced neither
// a result nor an error inside the watchdog window; treated as a start
// failure.
var ErrSpeechStartTimeout = errors.New("speech capture did not start")

// VoiceSession drives a speech source through the pipeline. Interim
// transcripts are coalesced and only the settled final text is handed to
// Handle, so partial utterances are never parsed twice. Identical finalized
// text arriving within one settle cycle is suppressed.
type VoiceSession struct {
	Source ports.SpeechSource
	// Handle receives each settled utterance. Processing is serialized:
	// the session holds one command in flight at a time.
	Handle func(ctx context.Context, text string)
	Logger ports.Logger

	// Debounce is the settle delay for interim results; the exact value is
	// a tuning knob, not an invariant.
	Debounce time.Duration
	// Watchdog bounds the wait for the first capture event.
	Watchdog time.Duration

	mu       sync.Mutex
	pending  string
	lastText string
	lastAt   time.Time
}

// Run starts capture and blocks until the context is cancelled or the
// source fails. Cancellation is cooperative: the context is checked at
// every async resumption.
func (v *VoiceSession) Run(ctx context.Context) error {
	if v.Source == nil || v.Handle == nil {
		return errors.New("services.VoiceSession dependencies not satisfied")
	}
	settle := v.Debounce
	if settle <= 0 {
		settle = domain.DefaultDebounceDelay
	}
	watchdog := v.Watchdog
	if watchdog <= 0 {
		watchdog = domain.DefaultWatchdogDelay
	}

	debounced := debounce.New(settle)
	errCh := make(chan error, 1)
	gotFirst := make(chan struct{})
	var firstOnce sync.Once

	onResult := func(text string, final bool) {
		firstOnce.Do(func() { close(gotFirst) })
		if ctx.Err() != nil {
			return
		}
		v.mu.Lock()
		v.pending = text
		v.mu.Unlock()
		if final {
			debounced(func() { v.flush(ctx, settle) })
		}
	}
	onError := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	if err := v.Source.Start(ctx, onResult, onError); err != nil {
		return err
	}
	defer func() {
		if err := v.Source.Stop(); err != nil {
			v.warn("speech stop failed", err)
		}
	}()

	// Watchdog: a source that claims to have started but never produces
	// anything is a start failure, not a silent user.
	watchdogTimer := time.AfterFunc(watchdog, func() {
		select {
		case <-gotFirst:
		default:
			onError(ErrSpeechStartTimeout)
		}
	})
	defer watchdogTimer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// flush hands the settled utterance to the handler, suppressing duplicates
// of the previous finalized text inside one settle cycle.
func (v *VoiceSession) flush(ctx context.Context, settle time.Duration) {
	v.mu.Lock()
	text := v.pending
	v.pending = ""
	now := time.Now()
	duplicate := text != "" && text == v.lastText && now.Sub(v.lastAt) < 2*settle
	if !duplicate && text != "" {
		v.lastText = text
		v.lastAt = now
	}
	v.mu.Unlock()

	if text == "" || duplicate || ctx.Err() != nil {
		return
	}
	v.Handle(ctx, text)
}

func (v *VoiceSession) warn(msg string, err error) {
	if v.Logger != nil {
		v.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}
