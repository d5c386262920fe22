// Package clarify decides which slot of a parsed intent is still missing
// and builds the question and ranked suggestions for the dialog that fills
// it. A nil request is the gate that lets execution proceed.
package clarify

import (
	"fmt"

	"github.com/vocusapp/vocus/internal/domain"
)

// Missing-slot identifiers.
const (
	MissingMessage  = "message"
	MissingWhen     = "when"
	MissingTarget   = "target"
	MissingDuration = "duration"
)

// Request is a clarification question with ranked suggestions.
type Request struct {
	Question    string
	Suggestions []string
	Missing     string
}

// NeedsClarification is the single source of truth for "what slot is
// missing". It is pure and re-derived fresh on every call: the context that
// personalizes suggestions can change between calls, so nothing here is
// memoized. Returns nil when the intent is complete.
func NeedsClarification(intent domain.Intent, cctx *domain.ConversationContext, aliases []string) *Request {
	switch i := intent.(type) {
	case domain.RemindIntent:
		return remindClarification(i)
	case domain.BlockIntent:
		return blockClarification(i, cctx, aliases)
	default:
		return nil
	}
}

func remindClarification(i domain.RemindIntent) *Request {
	if i.Message == "" {
		return &Request{
			Question:    "What would you like to be reminded about?",
			Suggestions: []string{"drink water", "take a break", "stretch"},
			Missing:     MissingMessage,
		}
	}
	scheduled := i.Time != "" || i.DurationMinutes > 0 || len(i.Days) > 0 ||
		i.Type == domain.ReminderDaily
	if !scheduled {
		return &Request{
			Question:    "When should I remind you?",
			Suggestions: []string{"in 30 minutes", "every day at 9 AM", "every Monday"},
			Missing:     MissingWhen,
		}
	}
	return nil
}

func blockClarification(i domain.BlockIntent, cctx *domain.ConversationContext, aliases []string) *Request {
	if i.Target == "" {
		suggestions := targetSuggestions(cctx, aliases)
		return &Request{
			Question:    "Which apps would you like to block?",
			Suggestions: suggestions,
			Missing:     MissingTarget,
		}
	}
	if i.DurationMinutes < 1 {
		suggestions := []string{"30 minutes", "1 hour", "2 hours"}
		if cctx != nil && cctx.LastDurationMinutes > 0 {
			suggestions = append(
				[]string{fmt.Sprintf("%d minutes", cctx.LastDurationMinutes)},
				suggestions...,
			)
		}
		return &Request{
			Question:    fmt.Sprintf("For how long should I block %s?", i.Target),
			Suggestions: suggestions,
			Missing:     MissingDuration,
		}
	}
	return nil
}

func targetSuggestions(cctx *domain.ConversationContext, aliases []string) []string {
	var suggestions []string
	if cctx != nil && cctx.LastTarget != "" {
		suggestions = append(suggestions, cctx.LastTarget)
	}
	for _, a := range aliases {
		if cctx != nil && a == cctx.LastTarget {
			continue
		}
		suggestions = append(suggestions, a)
		if len(suggestions) >= 4 {
			break
		}
	}
	if len(suggestions) == 0 {
		suggestions = []string{"social media", "instagram", "games"}
	}
	return suggestions
}
