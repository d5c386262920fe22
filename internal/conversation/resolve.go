// Package conversation keeps the TTL-bounded memory of the last applied
// action and resolves follow-up phrasing against it: pronouns ("block it
// again") and relative durations ("add 10 minutes").
package conversation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/vocusapp/vocus/internal/domain"
)

var (
	rePronoun   = regexp.MustCompile(`(?i)\b(it|that|them|those)\b`)
	reAgain     = regexp.MustCompile(`(?i)\bagain\b`)
	reLonger    = regexp.MustCompile(`(?i)\b(longer|extend|more time|keep going)\b`)
	reAddN      = regexp.MustCompile(`(?i)\badd\s+(\d{1,4})\s*(?:more\s+)?min(?:ute)?s?\b`)
	reForNMore  = regexp.MustCompile(`(?i)\bfor\s+(\d{1,4})\s+more\s+min(?:ute)?s?\b`)
)

// ResolvePronouns substitutes the remembered target for word-boundary
// pronouns, and expands "again" into a full block command reusing the last
// target and duration (defaulting to 30 minutes when none was remembered).
// Without usable context the text is returned unchanged.
func ResolvePronouns(text string, c *domain.ConversationContext) string {
	if c == nil || c.LastTarget == "" {
		return text
	}
	if reAgain.MatchString(text) && c.LastAction == domain.ActionBlock {
		minutes := c.LastDurationMinutes
		if minutes <= 0 {
			minutes = domain.DefaultBlockMinutes
		}
		return fmt.Sprintf("Block %s for %d minutes", c.LastTarget, minutes)
	}
	return rePronoun.ReplaceAllString(text, c.LastTarget)
}

// RelativeDuration recognizes modifiers relative to the last duration:
// "longer"/"extend"/"more time"/"keep going" scale it by 1.5, "add N
// minutes" adds to it, "for N more minutes" adds to it (or to 30 when
// nothing was remembered). Returns 0 when no pattern matches or no prior
// context exists; callers must then fall through to normal parsing.
func RelativeDuration(text string, c *domain.ConversationContext) int {
	if c == nil {
		return 0
	}
	if m := reForNMore.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		base := c.LastDurationMinutes
		if base <= 0 {
			base = domain.DefaultBlockMinutes
		}
		return base + n
	}
	if m := reAddN.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return c.LastDurationMinutes + n
	}
	if reLonger.MatchString(text) && c.LastDurationMinutes > 0 {
		return int(math.Round(float64(c.LastDurationMinutes) * 1.5))
	}
	return 0
}
