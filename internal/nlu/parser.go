package nlu

import (
	"regexp"
	"strings"
	"time"

	"github.com/vocusapp/vocus/internal/conversation"
	"github.com/vocusapp/vocus/internal/domain"
)

// ParseOptions controls one parse.
type ParseOptions struct {
	// AllowDefaultDuration backfills 30 minutes for a missing block
	// duration. Manually typed or confirmed commands set it; voice callers
	// leave it false so a missing duration triggers clarification instead
	// of silently assuming a default.
	AllowDefaultDuration bool
	// Aliases are the user's known blocking targets.
	Aliases []string
	// Context is the live conversation context, nil when absent/expired.
	Context *domain.ConversationContext
}

// Parser is the local grammar parser. It classifies first, resolves
// follow-up phrasing against the conversation context, then extracts a
// structured intent. It returns nil for text nothing could be made of.
type Parser struct {
	Classifier          *Classifier
	DefaultBlockMinutes int

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

var reCommand = regexp.MustCompile(`(?i)\b(block|start|stop)\b\s*(.*)$`)

// Parse runs the local pipeline for one utterance.
func (p *Parser) Parse(text string, opts ParseOptions) domain.Intent {
	// Follow-up resolution runs before the keyword gate: "make it longer"
	// carries no action keyword of its own, the context supplies it.
	if minutes := conversation.RelativeDuration(text, opts.Context); minutes > 0 && opts.Context.LastTarget != "" {
		return domain.BlockIntent{
			TargetType:      domain.TargetAlias,
			Target:          opts.Context.LastTarget,
			DurationMinutes: minutes,
		}
	}
	text = conversation.ResolvePronouns(text, opts.Context)

	cls := p.Classifier.Classify(text, opts.Aliases)
	if !cls.Valid() {
		return domain.ClassificationIntent{
			Classification: cls,
			NeedsGuidance:  true,
		}
	}

	// A reminder keyword wins over any generic command grammar match.
	if p.Classifier.HasReminderVerb(text) {
		return p.parseReminder(text)
	}

	m := reCommand.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	verb := strings.ToLower(m[1])
	if verb == "stop" {
		return domain.StopIntent{}
	}

	// "start" is a block synonym.
	target, minutes := splitTargetDuration(m[2], p.now())
	if target == "" && minutes == 0 {
		return nil
	}
	targetType := domain.TargetAlias
	if rest, ok := strings.CutPrefix(target, "preset "); ok {
		targetType = domain.TargetPreset
		target = strings.TrimSpace(rest)
	}
	if minutes == 0 && opts.AllowDefaultDuration {
		minutes = p.defaultMinutes()
	}
	return domain.BlockIntent{
		TargetType:      targetType,
		Target:          target,
		DurationMinutes: minutes,
	}
}

// splitTargetDuration separates "<target>[ for <duration>]", lowercasing
// and trimming the target. A trailing "for" with nothing after it reads as
// duration unknown.
func splitTargetDuration(rest string, now time.Time) (string, int) {
	rest = strings.TrimSpace(rest)
	lower := strings.ToLower(rest)

	if idx := strings.LastIndex(lower, " for "); idx >= 0 {
		target := strings.TrimSpace(lower[:idx])
		minutes := MinutesAt(lower[idx+len(" for "):], now)
		return trimTarget(target), minutes
	}
	if trimmed, ok := strings.CutSuffix(lower, " for"); ok {
		return trimTarget(trimmed), 0
	}

	// No "for" clause: a duration may still trail the target.
	minutes := MinutesAt(lower, now)
	target := lower
	if minutes > 0 {
		if loc := regexp.MustCompile(`(?i)\b(?:until\b|\d)`).FindStringIndex(lower); loc != nil {
			target = lower[:loc[0]]
		}
	}
	return trimTarget(target), minutes
}

func trimTarget(target string) string {
	target = strings.TrimSpace(target)
	target = strings.Trim(target, ".,!?")
	for _, article := range []string{"the ", "my "} {
		target = strings.TrimPrefix(target, article)
	}
	return strings.TrimSpace(target)
}

func (p *Parser) defaultMinutes() int {
	if p.DefaultBlockMinutes > 0 {
		return p.DefaultBlockMinutes
	}
	return domain.DefaultBlockMinutes
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
