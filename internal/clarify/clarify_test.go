package clarify

import (
	"testing"

	"github.com/vocusapp/vocus/internal/domain"
)

func TestRemindIntentMissingMessage(t *testing.T) {
	req := NeedsClarification(domain.RemindIntent{Type: domain.ReminderOneTime}, nil, nil)
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	if req.Missing != MissingMessage {
		t.Fatalf("missing = %q, want %q", req.Missing, MissingMessage)
	}
}

func TestRemindIntentMissingSchedule(t *testing.T) {
	intent := domain.RemindIntent{
		Type:    domain.ReminderOneTime,
		Message: "drink water",
	}
	req := NeedsClarification(intent, nil, nil)
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	if req.Missing != MissingWhen {
		t.Fatalf("missing = %q, want %q", req.Missing, MissingWhen)
	}
}

func TestRemindIntentCompleteNeedsNothing(t *testing.T) {
	tests := []struct {
		name   string
		intent domain.RemindIntent
	}{
		{"one-time with duration", domain.RemindIntent{
			Type: domain.ReminderOneTime, Message: "stretch", DurationMinutes: 30}},
		{"daily is inherently scheduled", domain.RemindIntent{
			Type: domain.ReminderDaily, Message: "stretch"}},
		{"weekly with days", domain.RemindIntent{
			Type: domain.ReminderWeekly, Message: "stretch", Days: []string{"monday"}}},
		{"clock time", domain.RemindIntent{
			Type: domain.ReminderOneTime, Message: "stretch", Time: "6pm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if req := NeedsClarification(tt.intent, nil, nil); req != nil {
				t.Fatalf("expected nil, got %+v", req)
			}
		})
	}
}

func TestBlockIntentMissingTarget(t *testing.T) {
	req := NeedsClarification(domain.BlockIntent{DurationMinutes: 30}, nil, []string{"instagram", "games"})
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	if req.Missing != MissingTarget {
		t.Fatalf("missing = %q, want %q", req.Missing, MissingTarget)
	}
	if len(req.Suggestions) != 2 || req.Suggestions[0] != "instagram" {
		t.Fatalf("suggestions = %v", req.Suggestions)
	}
}

func TestBlockIntentTargetSuggestionsPreferContext(t *testing.T) {
	cctx := &domain.ConversationContext{LastTarget: "games"}
	req := NeedsClarification(domain.BlockIntent{DurationMinutes: 30}, cctx, []string{"instagram", "games"})
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	// Context target first, remaining aliases after without duplication.
	if req.Suggestions[0] != "games" {
		t.Fatalf("suggestions = %v, want games first", req.Suggestions)
	}
	for _, s := range req.Suggestions[1:] {
		if s == "games" {
			t.Fatalf("duplicate context target in %v", req.Suggestions)
		}
	}
}

func TestBlockIntentMissingDuration(t *testing.T) {
	req := NeedsClarification(domain.BlockIntent{Target: "instagram"}, nil, nil)
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	if req.Missing != MissingDuration {
		t.Fatalf("missing = %q, want %q", req.Missing, MissingDuration)
	}
}

func TestBlockIntentDurationSuggestionsPreferLastDuration(t *testing.T) {
	cctx := &domain.ConversationContext{LastDurationMinutes: 45}
	req := NeedsClarification(domain.BlockIntent{Target: "instagram"}, cctx, nil)
	if req == nil {
		t.Fatal("expected a clarification request")
	}
	if req.Suggestions[0] != "45 minutes" {
		t.Fatalf("suggestions = %v, want last duration first", req.Suggestions)
	}
}

func TestCompleteBlockIntentNeedsNothing(t *testing.T) {
	intent := domain.BlockIntent{Target: "instagram", DurationMinutes: 30}
	if req := NeedsClarification(intent, nil, nil); req != nil {
		t.Fatalf("expected nil, got %+v", req)
	}
}

func TestStopIntentNeverNeedsClarification(t *testing.T) {
	if req := NeedsClarification(domain.StopIntent{}, nil, nil); req != nil {
		t.Fatalf("expected nil, got %+v", req)
	}
}
