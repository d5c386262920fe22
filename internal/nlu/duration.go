package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Compiled duration grammar, checked in priority order: compact forms
// ("1h30", "45m", "2h"), natural language ("30 minutes", "2 hours"), then
// the deadline form ("until 6pm").
var (
	reCompact   = regexp.MustCompile(`(?i)\b(\d{1,3})h(\d{1,2})m?\b`)
	reHours     = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:h|hrs?|hours?)\b`)
	reMinutes   = regexp.MustCompile(`(?i)\b(\d{1,4})\s*(?:m|mins?|minutes?)\b`)
	reUntil     = regexp.MustCompile(`(?i)\buntil\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	reHalfHour  = regexp.MustCompile(`(?i)\bhalf\s+(?:an\s+)?hour\b`)
	reQuartHour = regexp.MustCompile(`(?i)\bquarter\s+of\s+an\s+hour\b`)
)

// Minutes converts a free-text time expression into whole minutes. Absence
// of a match yields 0, signaling "duration unknown" to callers; it never
// fails.
func Minutes(text string) int {
	return MinutesAt(text, time.Now())
}

// MinutesAt is Minutes with an explicit reference time for the deadline
// form ("until 6pm" means minutes from now until that clock time today; 0
// when the clock time already passed).
func MinutesAt(text string, now time.Time) int {
	if m := reCompact.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return hours*60 + mins
	}

	total := 0
	if m := reHours.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		total += hours * 60
	}
	if m := reMinutes.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	if total > 0 {
		return total
	}

	if m := reUntil.FindStringSubmatch(text); m != nil {
		return minutesUntil(m, now)
	}
	return 0
}

// ReminderMinutes is the reminder-path variant: digits first, then English
// number words up to ninety-nine (including hyphenated compounds) and the
// half-hour / quarter-hour phrases.
func ReminderMinutes(text string) int {
	if m := reCompact.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return hours*60 + mins
	}
	total := 0
	if m := reHours.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		total += hours * 60
	}
	if m := reMinutes.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	if total > 0 {
		return total
	}

	if reHalfHour.MatchString(text) {
		return 30
	}
	if reQuartHour.MatchString(text) {
		return 15
	}

	if n := wordNumber(text); n > 0 {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "hour") {
			return n * 60
		}
		return n
	}
	return 0
}

func minutesUntil(m []string, now time.Time) int {
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		return 0
	}
	return int(target.Sub(now) / time.Minute)
}
