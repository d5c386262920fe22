package nlu

import (
	"testing"
	"time"
)

func TestMinutesAtParsesCommonForms(t *testing.T) {
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		text string
		want int
	}{
		{"30 minutes", 30},
		{"45m", 45},
		{"45 mins", 45},
		{"2 hours", 120},
		{"2h", 120},
		{"1h30", 90},
		{"1h30m", 90},
		{"1 hour 15 minutes", 75},
		{"until 6pm", 60},
		{"until 5:30 pm", 30},
		{"no duration here", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := MinutesAt(tt.text, now); got != tt.want {
			t.Errorf("MinutesAt(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestMinutesAtDeadlineAlreadyPassed(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	if got := MinutesAt("until 6pm", now); got != 0 {
		t.Fatalf("expected 0 for a passed deadline, got %d", got)
	}
}

func TestReminderMinutesWordNumbers(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"10 minutes", 10},
		{"half an hour", 30},
		{"half hour", 30},
		{"quarter of an hour", 15},
		{"two hours", 120},
		{"ninety minutes", 90},
		{"twenty-five minutes", 25},
		{"twenty five minutes", 25},
		{"fifteen minutes", 15},
		{"soon", 0},
	}

	for _, tt := range tests {
		if got := ReminderMinutes(tt.text); got != tt.want {
			t.Errorf("ReminderMinutes(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestWordNumberCompoundBeatsTensPrefix(t *testing.T) {
	if got := wordNumber("twenty-one"); got != 21 {
		t.Fatalf("wordNumber(twenty-one) = %d, want 21", got)
	}
	if got := wordNumber("twenty"); got != 20 {
		t.Fatalf("wordNumber(twenty) = %d, want 20", got)
	}
}
