package clarify

import (
	"strings"
	"time"

	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/nlu"
)

// Fill merges a clarification answer into the intent's missing slot.
// Reports false when the answer did not resolve the slot, so the dialog can
// re-ask instead of guessing.
func Fill(intent domain.Intent, missing string, answer string, now time.Time) (domain.Intent, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return intent, false
	}

	switch i := intent.(type) {
	case domain.BlockIntent:
		switch missing {
		case MissingTarget:
			i.Target = strings.ToLower(answer)
			return i, true
		case MissingDuration:
			minutes := nlu.MinutesAt(answer, now)
			if minutes == 0 {
				minutes = nlu.ReminderMinutes(answer)
			}
			if minutes == 0 {
				return intent, false
			}
			i.DurationMinutes = minutes
			return i, true
		}

	case domain.RemindIntent:
		switch missing {
		case MissingMessage:
			i.Message = answer
			return i, true
		case MissingWhen:
			if minutes := nlu.ReminderMinutes(answer); minutes > 0 {
				i.Type = domain.ReminderOneTime
				i.DurationMinutes = minutes
				return i, true
			}
			// Fall back to re-reading the answer as a schedule clause.
			return fillSchedule(i, answer, now)
		}
	}
	return intent, false
}

func fillSchedule(i domain.RemindIntent, answer string, now time.Time) (domain.Intent, bool) {
	parser := &nlu.Parser{Now: func() time.Time { return now }}
	reparsed, ok := parser.ParseReminderText("remind me to " + i.Message + " " + answer)
	if !ok {
		return i, false
	}
	scheduled := reparsed.Time != "" || reparsed.DurationMinutes > 0 ||
		len(reparsed.Days) > 0 || reparsed.Type == domain.ReminderDaily
	if !scheduled {
		return i, false
	}
	reparsed.Message = i.Message
	return reparsed, true
}
