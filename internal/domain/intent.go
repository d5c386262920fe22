package domain

// Action identifies what an utterance asks the system to do.
type Action string

const (
	ActionBlock  Action = "block"
	ActionStop   Action = "stop"
	ActionRemind Action = "remind"
	// ActionClassification marks an utterance that needs guidance before it
	// can become an actionable intent.
	ActionClassification Action = "classification"
)

// TargetType distinguishes a user-named alias from a named preset group.
type TargetType string

const (
	TargetAlias  TargetType = "alias"
	TargetPreset TargetType = "preset"
)

// ReminderType describes the scheduling shape of a reminder.
type ReminderType string

const (
	ReminderOneTime ReminderType = "one-time"
	ReminderDaily   ReminderType = "daily"
	ReminderWeekly  ReminderType = "weekly"
	ReminderCustom  ReminderType = "custom"
)

// Source records which parser produced an intent.
type Source string

const (
	SourceLocal Source = "local"
	SourceCloud Source = "cloud"
	SourceNone  Source = "none"
)

// Metadata is attached to an intent after routing.
type Metadata struct {
	Source      Source
	Confidence  float64
	ParseTimeMS int64
	Note        string
}

// Intent is the parsed meaning of one utterance. It is a closed sum:
// BlockIntent, StopIntent, RemindIntent or ClassificationIntent.
type Intent interface {
	Action() Action
	// Confidence is the parser's heuristic score; 0 means the parser did
	// not score this intent and callers should apply their own default.
	Confidence() float64
	Meta() Metadata
	// WithMeta returns a copy of the intent carrying routing metadata.
	WithMeta(Metadata) Intent

	sealedIntent()
}

// BlockIntent requests a blocking session against a target.
type BlockIntent struct {
	TargetType      TargetType
	Target          string
	DurationMinutes int
	Score           float64
	Metadata        Metadata
}

func (BlockIntent) Action() Action        { return ActionBlock }
func (i BlockIntent) Confidence() float64 { return i.Score }
func (i BlockIntent) Meta() Metadata      { return i.Metadata }
func (i BlockIntent) WithMeta(m Metadata) Intent {
	i.Metadata = m
	return i
}
func (BlockIntent) sealedIntent() {}

// StopIntent requests stopping the active blocking session.
type StopIntent struct {
	Metadata Metadata
}

func (StopIntent) Action() Action      { return ActionStop }
func (StopIntent) Confidence() float64 { return 0 }
func (i StopIntent) Meta() Metadata    { return i.Metadata }
func (i StopIntent) WithMeta(m Metadata) Intent {
	i.Metadata = m
	return i
}
func (StopIntent) sealedIntent() {}

// RemindIntent requests scheduling a reminder.
type RemindIntent struct {
	Message         string
	Type            ReminderType
	Time            string // clock string such as "9:00" or "6 pm"
	DurationMinutes int    // minutes from now, one-time reminders only
	Days            []string
	Score           float64
	Metadata        Metadata
}

func (RemindIntent) Action() Action        { return ActionRemind }
func (i RemindIntent) Confidence() float64 { return i.Score }
func (i RemindIntent) Meta() Metadata      { return i.Metadata }
func (i RemindIntent) WithMeta(m Metadata) Intent {
	i.Metadata = m
	return i
}
func (RemindIntent) sealedIntent() {}

// ClassificationIntent carries a non-valid classification back to the
// caller: the utterance needs guidance, not execution.
type ClassificationIntent struct {
	Classification Classification
	NeedsGuidance  bool
	Metadata       Metadata
}

func (ClassificationIntent) Action() Action      { return ActionClassification }
func (ClassificationIntent) Confidence() float64 { return 0 }
func (i ClassificationIntent) Meta() Metadata    { return i.Metadata }
func (i ClassificationIntent) WithMeta(m Metadata) Intent {
	i.Metadata = m
	return i
}
func (ClassificationIntent) sealedIntent() {}
