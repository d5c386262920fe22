package domain

import "time"

// ConversationContext remembers the last applied action so follow-up
// utterances can use pronouns ("block it again") and relative durations
// ("make it longer"). Exactly one context is live per process; writes are
// last-write-wins.
//
// Only the fields follow-ups actually read survive between turns; the full
// last intent and plan are deliberately not retained.
type ConversationContext struct {
	LastAction          Action    `json:"last_action"`
	LastTarget          string    `json:"last_target"`
	LastDurationMinutes int       `json:"last_duration_minutes"`
	Timestamp           time.Time `json:"timestamp"`
}

// Expired reports whether the context is older than ttl at the given time.
func (c *ConversationContext) Expired(now time.Time, ttl time.Duration) bool {
	if c == nil {
		return true
	}
	return now.Sub(c.Timestamp) > ttl
}
