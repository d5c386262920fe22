package clarify

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/vocusapp/vocus/internal/domain"
)

// Guidance is the prompt shown for classifier-level ambiguity, before any
// slot extraction happened. It is distinct from slot clarification: the
// user has not expressed an actionable intent yet.
type Guidance struct {
	Message     string
	Suggestions []string
}

// GuidancePrompt builds the static template response for a non-valid
// classification. Returns nil for valid classifications.
func GuidancePrompt(cls domain.Classification, text string, aliases []string) *Guidance {
	switch cls.Type {
	case domain.ClassOffTopic:
		return &Guidance{
			Message: "I can block distracting apps or set reminders. Try one of these:",
			Suggestions: []string{
				"Block social media for 1 hour",
				"Remind me to stretch in 30 minutes",
			},
		}

	case domain.ClassUnclearAction:
		target := cls.DetectedTarget
		if target == "" {
			target = "that"
		}
		return &Guidance{
			Message: fmt.Sprintf("What would you like to do with %s?", target),
			Suggestions: []string{
				fmt.Sprintf("Block %s for 30 minutes", target),
				fmt.Sprintf("Remind me about %s later", target),
			},
		}

	case domain.ClassUnclearTarget:
		if cls.SuggestedAction == domain.ActionRemind {
			return &Guidance{
				Message: "What should I remind you about, and when?",
				Suggestions: []string{
					"Remind me to drink water in 30 minutes",
					"Remind me to call mom every day at 6 PM",
				},
			}
		}
		suggestions := RankAliases(text, aliases)
		if len(suggestions) == 0 {
			suggestions = []string{"social media", "instagram", "games"}
		}
		return &Guidance{
			Message:     "What would you like to block?",
			Suggestions: suggestions,
		}

	default:
		return nil
	}
}

// RankAliases orders the known aliases by fuzzy relevance to the utterance,
// best match first. At most three are returned.
func RankAliases(query string, aliases []string) []string {
	if query == "" || len(aliases) == 0 {
		return nil
	}
	matches := fuzzy.Find(query, aliases)
	ranked := make([]string, 0, 3)
	for _, m := range matches {
		ranked = append(ranked, aliases[m.Index])
		if len(ranked) == 3 {
			break
		}
	}
	return ranked
}
