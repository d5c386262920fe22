// Package router decides, per utterance, whether the local parse is trusted
// or the remote parser should be consulted. It is a graceful-degradation
// chain: remote is always optional, local is always the backstop, and the
// only hard failure is no local result and no remote available.
package router

import (
	"context"
	"strings"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/nlu"
	"github.com/vocusapp/vocus/internal/ports"
	"github.com/vocusapp/vocus/internal/usage"
)

// Metadata notes attached when the remote leg degrades.
const (
	NoteCloudLimitReached     = "cloud-limit-reached"
	NoteCloudFailedUsingLocal = "cloud-failed-using-local"
)

// Hybrid routes between the local grammar parser and the remote NLU
// provider, gated by confidence and the daily usage quota.
type Hybrid struct {
	Local  *nlu.Parser
	Remote ports.RemoteParser
	Usage  *usage.Tracker
	Logger ports.Logger

	// Enabled turns hybrid mode on; when off every local result is used
	// as-is.
	Enabled bool
	// Threshold is inclusive: a local confidence at the threshold is
	// trusted without a remote call.
	Threshold float64
	// DefaultBlockMinutes backfills a remote block result that came back
	// without a duration, only when opts.AllowDefaultDuration is set.
	DefaultBlockMinutes int
}

// Parse runs one utterance through the chain. A nil result means neither
// leg produced anything actionable.
func (h *Hybrid) Parse(ctx context.Context, text string, opts nlu.ParseOptions) domain.Intent {
	start := time.Now()

	local := h.Local.Parse(text, opts)
	if local == nil {
		return h.remoteOnly(ctx, text, opts, start)
	}

	// Guidance results never consult the remote parser; the classifier
	// gate exists precisely so this chatter does not burn a cloud call.
	if local.Action() == domain.ActionClassification {
		return h.tag(local, domain.SourceLocal, local.Confidence(), start, "")
	}

	confidence := local.Confidence()
	if confidence == 0 {
		confidence = domain.DefaultParserConfidence
	}
	if !h.Enabled || confidence >= h.threshold() {
		return h.tag(local, domain.SourceLocal, confidence, start, "")
	}

	if h.Remote == nil || !h.Remote.Available() {
		return h.tag(local, domain.SourceLocal, confidence, start, "")
	}

	quota := h.Usage.Remaining(ctx)
	if !quota.CanUse {
		// Quota exhaustion never hard-fails a command; degrade to local.
		return h.tag(local, domain.SourceLocal, confidence, start, NoteCloudLimitReached)
	}

	remote := h.tryRemote(ctx, text, opts)
	if remote == nil {
		return h.tag(local, domain.SourceLocal, confidence, start, NoteCloudFailedUsingLocal)
	}
	if err := h.Usage.Increment(ctx); err != nil {
		h.warn("usage increment failed", err)
	}
	return h.tag(remote, domain.SourceCloud, remote.Confidence(), start, "")
}

func (h *Hybrid) remoteOnly(ctx context.Context, text string, opts nlu.ParseOptions, start time.Time) domain.Intent {
	if h.Remote == nil || !h.Remote.Available() {
		return nil
	}
	if quota := h.Usage.Remaining(ctx); !quota.CanUse {
		return nil
	}
	remote := h.tryRemote(ctx, text, opts)
	if remote == nil {
		return nil
	}
	if err := h.Usage.Increment(ctx); err != nil {
		h.warn("usage increment failed", err)
	}
	return h.tag(remote, domain.SourceCloud, remote.Confidence(), start, "")
}

func (h *Hybrid) tryRemote(ctx context.Context, text string, opts nlu.ParseOptions) domain.Intent {
	parsed, err := h.Remote.Parse(ctx, text)
	if err != nil {
		h.warn("remote parse failed", err)
		return nil
	}
	if parsed == nil {
		return nil
	}
	return h.fromRemote(parsed, opts)
}

// fromRemote converts the wire result into an intent, normalizing action
// synonyms. The 30-minute default is backfilled only when the remote parser
// itself returned no duration.
func (h *Hybrid) fromRemote(r *domain.RemoteParse, opts nlu.ParseOptions) domain.Intent {
	action := strings.ToLower(strings.TrimSpace(r.Action))
	if action == "start" {
		action = "block"
	}

	switch action {
	case "block":
		minutes := r.DurationMinutes
		if minutes == 0 && opts.AllowDefaultDuration {
			minutes = h.defaultMinutes()
		}
		return domain.BlockIntent{
			TargetType:      domain.TargetAlias,
			Target:          strings.ToLower(strings.TrimSpace(r.Target)),
			DurationMinutes: minutes,
			Score:           r.Confidence,
		}
	case "stop":
		return domain.StopIntent{}
	case "remind":
		message := r.Message
		if message == "" {
			message = r.Target
		}
		intent := domain.RemindIntent{
			Message: message,
			Score:   r.Confidence,
		}
		if r.DurationMinutes > 0 {
			intent.Type = domain.ReminderOneTime
			intent.DurationMinutes = r.DurationMinutes
		}
		return intent
	default:
		return nil
	}
}

func (h *Hybrid) tag(intent domain.Intent, source domain.Source, confidence float64, start time.Time, note string) domain.Intent {
	return intent.WithMeta(domain.Metadata{
		Source:      source,
		Confidence:  confidence,
		ParseTimeMS: time.Since(start).Milliseconds(),
		Note:        note,
	})
}

func (h *Hybrid) threshold() float64 {
	if h.Threshold > 0 {
		return h.Threshold
	}
	return domain.DefaultConfidenceThreshold
}

func (h *Hybrid) defaultMinutes() int {
	if h.DefaultBlockMinutes > 0 {
		return h.DefaultBlockMinutes
	}
	return domain.DefaultBlockMinutes
}

func (h *Hybrid) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}
