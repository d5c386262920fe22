package nlu

import (
	"regexp"
	"strings"

	"github.com/vocusapp/vocus/internal/domain"
)

// Reminder sub-parser grammar.
var (
	reRemindTo   = regexp.MustCompile(`(?i)\bremind me to\s+(.+?)(?:\s+(?:in|at|every|on)\s+.+)?$`)
	reRemindBare = regexp.MustCompile(`(?i)\bremind me\s+(?:about\s+)?(.+?)(?:\s+(?:in|at|every|on)\s+.+)?$`)
	reDailyType  = regexp.MustCompile(`(?i)\b(?:every\s+day|daily|each\s+day)\b`)
	reWeeklyType = regexp.MustCompile(`(?i)\b(?:every\s+week|weekly)\b`)
	reEveryDay   = regexp.MustCompile(`(?i)\bevery\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	reDayName    = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	reAtClock    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)
	reInClause   = regexp.MustCompile(`(?i)\bin\s+(.+)$`)
)

// parseReminder extracts a reminder intent. The type check runs in a fixed
// order, first match wins: daily, weekly, custom day list, then one-time
// ("in <duration>"). Confidence is additive and capped at 1.0; it must not
// depend on anything but the text, since the router compares it against its
// threshold no matter which caller parsed.
func (p *Parser) parseReminder(text string) domain.Intent {
	message := extractMessage(text)

	intent := domain.RemindIntent{Message: message}
	score := 0.5

	days := collectDays(text)
	clock := ""
	if m := reAtClock.FindStringSubmatch(text); m != nil {
		clock = strings.TrimSpace(m[1])
	}

	switch {
	case reDailyType.MatchString(text):
		intent.Type = domain.ReminderDaily
		score += 0.2
	case reWeeklyType.MatchString(text) || (reEveryDay.MatchString(text) && len(days) == 1):
		intent.Type = domain.ReminderWeekly
		intent.Days = days
		score += 0.2
	case len(days) > 0:
		intent.Type = domain.ReminderCustom
		intent.Days = days
		score += 0.2
	default:
		intent.Type = domain.ReminderOneTime
		if m := reInClause.FindStringSubmatch(text); m != nil {
			intent.DurationMinutes = ReminderMinutes(m[1])
			if intent.DurationMinutes > 0 {
				score += 0.2
			}
		}
		if intent.DurationMinutes == 0 && clock != "" {
			// "remind me at 6pm" schedules once at that clock time today.
			intent.DurationMinutes = MinutesAt("until "+clock, p.now())
			if intent.DurationMinutes > 0 {
				score += 0.15
			}
		}
	}

	if clock != "" {
		intent.Time = clock
		score += 0.15
	}
	if len(intent.Days) > 0 {
		score += 0.1
	}
	if len(message) > 3 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	intent.Score = score
	return intent
}

// ParseReminderText parses text as a reminder command without running the
// classifier gate; used when recomposing a clarification answer into a full
// utterance.
func (p *Parser) ParseReminderText(text string) (domain.RemindIntent, bool) {
	intent, ok := p.parseReminder(text).(domain.RemindIntent)
	return intent, ok
}

func extractMessage(text string) string {
	if m := reRemindTo.FindStringSubmatch(text); m != nil {
		return cleanMessage(m[1])
	}
	if m := reRemindBare.FindStringSubmatch(text); m != nil {
		return cleanMessage(m[1])
	}
	return ""
}

func cleanMessage(message string) string {
	message = strings.TrimSpace(message)
	return strings.Trim(message, ".,!?")
}

func collectDays(text string) []string {
	var days []string
	seen := map[string]bool{}
	for _, m := range reDayName.FindAllStringSubmatch(text, -1) {
		day := strings.ToLower(m[1])
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}
