package nlu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vocusapp/vocus/internal/domain"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}
	return c
}

func TestClassifyEmptyUtteranceIsOffTopic(t *testing.T) {
	c := newTestClassifier(t)

	got := c.Classify("", nil)
	if got.Type != domain.ClassOffTopic || got.Confidence != domain.ConfidenceHigh {
		t.Fatalf("Classify(\"\") = %+v, want off-topic/high", got)
	}
}

func TestClassifyDecisionTable(t *testing.T) {
	c := newTestClassifier(t)
	aliases := []string{"instagram", "work apps"}

	tests := []struct {
		name       string
		text       string
		wantType   domain.ClassificationType
		wantConf   domain.ConfidenceLevel
		wantAction domain.Action
	}{
		{
			name:     "off topic chatter",
			text:     "What's the weather like?",
			wantType: domain.ClassOffTopic,
			wantConf: domain.ConfidenceHigh,
		},
		{
			name:       "target without action",
			text:       "Instagram",
			wantType:   domain.ClassUnclearAction,
			wantConf:   domain.ConfidenceMedium,
			wantAction: domain.ActionBlock,
		},
		{
			name:       "reminder verb without anything else",
			text:       "Remind me",
			wantType:   domain.ClassUnclearTarget,
			wantConf:   domain.ConfidenceMedium,
			wantAction: domain.ActionRemind,
		},
		{
			name:       "block verb without target",
			text:       "Block",
			wantType:   domain.ClassUnclearTarget,
			wantConf:   domain.ConfidenceMedium,
			wantAction: domain.ActionBlock,
		},
		{
			name:     "complete block command",
			text:     "Block Instagram for 30 minutes",
			wantType: domain.ClassValid,
			wantConf: domain.ConfidenceHigh,
		},
		{
			name:       "focus verb without target still needs one",
			text:       "Focus for 25 minutes",
			wantType:   domain.ClassUnclearTarget,
			wantConf:   domain.ConfidenceMedium,
			wantAction: domain.ActionBlock,
		},
		{
			name:     "stop command",
			text:     "Stop blocking",
			wantType: domain.ClassValid,
			wantConf: domain.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, aliases)
			if got.Type != tt.wantType {
				t.Fatalf("type = %s, want %s (%+v)", got.Type, tt.wantType, got)
			}
			if got.Confidence != tt.wantConf {
				t.Fatalf("confidence = %s, want %s", got.Confidence, tt.wantConf)
			}
			if tt.wantAction != "" && got.SuggestedAction != tt.wantAction {
				t.Fatalf("suggested action = %s, want %s", got.SuggestedAction, tt.wantAction)
			}
		})
	}
}

func TestClassifyDetectsAlias(t *testing.T) {
	c := newTestClassifier(t)

	got := c.Classify("block work apps for an hour", []string{"work apps"})
	if got.Type != domain.ClassValid {
		t.Fatalf("expected valid, got %+v", got)
	}
	if got.DetectedTarget != "work apps" {
		t.Fatalf("DetectedTarget = %q, want %q", got.DetectedTarget, "work apps")
	}
}

func TestClassifierRulesFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := []byte("rules:\n  target_nouns:\n    - spreadsheets\n")
	if err := os.WriteFile(path, rules, 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	c, err := NewClassifier(path)
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	got := c.Classify("block spreadsheets for 10 minutes", nil)
	if got.Type != domain.ClassValid {
		t.Fatalf("custom target noun not honored: %+v", got)
	}

	// Unset sections fall back to the embedded defaults.
	if !c.HasReminderVerb("remind me to stretch") {
		t.Fatal("reminder verbs should be backfilled from defaults")
	}
}
