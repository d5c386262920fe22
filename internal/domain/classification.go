package domain

// ClassificationType buckets an utterance before full parsing.
type ClassificationType string

const (
	ClassValid         ClassificationType = "valid"
	ClassOffTopic      ClassificationType = "off-topic"
	ClassUnclearAction ClassificationType = "unclear-action"
	ClassUnclearTarget ClassificationType = "unclear-target"
)

// ConfidenceLevel is the classifier's coarse certainty.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Classification is the keyword-gate verdict for one utterance. It decides
// whether the grammar parser runs at all, and which guidance prompt to show
// when it should not.
type Classification struct {
	Type            ClassificationType
	Confidence      ConfidenceLevel
	SuggestedAction Action
	DetectedTarget  string
}

// Valid reports whether parsing should proceed.
func (c Classification) Valid() bool {
	return c.Type == ClassValid
}
