package clarify

import (
	"strings"
	"testing"

	"github.com/vocusapp/vocus/internal/domain"
)

func TestGuidancePromptOffTopic(t *testing.T) {
	g := GuidancePrompt(domain.Classification{Type: domain.ClassOffTopic}, "how are you", nil)
	if g == nil {
		t.Fatal("expected guidance")
	}
	if len(g.Suggestions) == 0 {
		t.Fatal("expected example commands")
	}
}

func TestGuidancePromptUnclearActionNamesTarget(t *testing.T) {
	cls := domain.Classification{
		Type:           domain.ClassUnclearAction,
		DetectedTarget: "instagram",
	}
	g := GuidancePrompt(cls, "instagram", nil)
	if g == nil {
		t.Fatal("expected guidance")
	}
	if !strings.Contains(g.Message, "instagram") {
		t.Fatalf("message %q should name the detected target", g.Message)
	}
}

func TestGuidancePromptUnclearTargetRemind(t *testing.T) {
	cls := domain.Classification{
		Type:            domain.ClassUnclearTarget,
		SuggestedAction: domain.ActionRemind,
	}
	g := GuidancePrompt(cls, "remind me", nil)
	if g == nil {
		t.Fatal("expected guidance")
	}
	if !strings.Contains(g.Message, "remind") {
		t.Fatalf("message %q should be about reminders", g.Message)
	}
}

func TestGuidancePromptValidReturnsNil(t *testing.T) {
	if g := GuidancePrompt(domain.Classification{Type: domain.ClassValid}, "block instagram", nil); g != nil {
		t.Fatalf("expected nil, got %+v", g)
	}
}

func TestRankAliases(t *testing.T) {
	aliases := []string{"work apps", "instagram", "games", "news sites"}

	ranked := RankAliases("insta", aliases)
	if len(ranked) == 0 {
		t.Fatal("expected matches")
	}
	if ranked[0] != "instagram" {
		t.Fatalf("ranked = %v, want instagram first", ranked)
	}
}

func TestRankAliasesEmptyInputs(t *testing.T) {
	if got := RankAliases("", []string{"a"}); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
	if got := RankAliases("query", nil); got != nil {
		t.Fatalf("expected nil for no aliases, got %v", got)
	}
}
