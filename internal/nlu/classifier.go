package nlu

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vocusapp/vocus/assets"
	"github.com/vocusapp/vocus/internal/domain"
)

// Classifier is the keyword gate run before full parsing. It buckets an
// utterance into valid / off-topic / unclear-action / unclear-target so
// off-topic chatter never reaches the grammar parser or burns a remote
// parse.
type Classifier struct {
	blockVerbs    wordSet
	reminderVerbs wordSet
	focusVerbs    wordSet
	targetNouns   wordSet
	timeNouns     wordSet
}

// RulesFile is the YAML schema root for ~/.vocus/rules.yaml.
type RulesFile struct {
	Rules struct {
		BlockVerbs    []string `yaml:"block_verbs"`
		ReminderVerbs []string `yaml:"reminder_verbs"`
		FocusVerbs    []string `yaml:"focus_verbs"`
		TargetNouns   []string `yaml:"target_nouns"`
		TimeNouns     []string `yaml:"time_nouns"`
	} `yaml:"rules"`
}

var reDigit = regexp.MustCompile(`\d`)

// NewClassifier loads keyword rules from disk (or the embedded defaults
// when the file is missing or incomplete).
func NewClassifier(path string) (*Classifier, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		blockVerbs:    newWordSet(rules.Rules.BlockVerbs),
		reminderVerbs: newWordSet(rules.Rules.ReminderVerbs),
		focusVerbs:    newWordSet(rules.Rules.FocusVerbs),
		targetNouns:   newWordSet(rules.Rules.TargetNouns),
		timeNouns:     newWordSet(rules.Rules.TimeNouns),
	}, nil
}

// Classify applies the decision table in order. aliases are the user's
// known blocking targets; a matched alias counts as a target.
func (c *Classifier) Classify(text string, aliases []string) domain.Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := splitWords(lower)

	hasBlockVerb := c.blockVerbs.containsAny(words)
	hasReminderVerb := c.reminderVerbs.containsAny(words)
	hasFocusVerb := c.focusVerbs.containsAny(words)
	hasAction := hasBlockVerb || hasReminderVerb || hasFocusVerb
	hasTargetNoun := c.targetNouns.containsAny(words)
	hasTimeNoun := c.timeNouns.containsAny(words)
	hasDigit := reDigit.MatchString(lower)
	alias := matchAlias(lower, aliases)

	switch {
	case !hasAction && !hasTargetNoun && alias == "" && !hasTimeNoun:
		return domain.Classification{
			Type:       domain.ClassOffTopic,
			Confidence: domain.ConfidenceHigh,
		}

	case !hasAction && (hasTargetNoun || alias != ""):
		return domain.Classification{
			Type:            domain.ClassUnclearAction,
			Confidence:      domain.ConfidenceMedium,
			SuggestedAction: domain.ActionBlock,
			DetectedTarget:  alias,
		}

	case hasReminderVerb && !hasTargetNoun && alias == "" && !hasTimeNoun && !hasDigit:
		return domain.Classification{
			Type:            domain.ClassUnclearTarget,
			Confidence:      domain.ConfidenceMedium,
			SuggestedAction: domain.ActionRemind,
		}

	case (hasBlockVerb || hasFocusVerb) && !hasTargetNoun && alias == "":
		return domain.Classification{
			Type:            domain.ClassUnclearTarget,
			Confidence:      domain.ConfidenceMedium,
			SuggestedAction: domain.ActionBlock,
		}

	case hasAction && (hasTargetNoun || alias != "" || hasTimeNoun):
		return domain.Classification{
			Type:           domain.ClassValid,
			Confidence:     domain.ConfidenceHigh,
			DetectedTarget: alias,
		}

	case hasAction:
		// Deliberately lenient: real validation happens in the parser.
		return domain.Classification{
			Type:       domain.ClassValid,
			Confidence: domain.ConfidenceMedium,
		}

	default:
		return domain.Classification{
			Type:       domain.ClassOffTopic,
			Confidence: domain.ConfidenceLow,
		}
	}
}

// HasReminderVerb reports whether the utterance carries a reminder keyword;
// the parser routes such text to the reminder sub-parser regardless of any
// generic command grammar match.
func (c *Classifier) HasReminderVerb(text string) bool {
	return c.reminderVerbs.containsAny(splitWords(strings.ToLower(text)))
}

func matchAlias(lower string, aliases []string) string {
	for _, a := range aliases {
		if a == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(a)) {
			return a
		}
	}
	return ""
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(path)
	if err != nil {
		data = assets.DefaultRulesYAML
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	hydrateRules(&rules)
	return rules, nil
}

// hydrateRules backfills any keyword set the rules file left empty.
func hydrateRules(rules *RulesFile) {
	var defaults RulesFile
	if err := yaml.Unmarshal(assets.DefaultRulesYAML, &defaults); err != nil {
		return
	}
	if len(rules.Rules.BlockVerbs) == 0 {
		rules.Rules.BlockVerbs = defaults.Rules.BlockVerbs
	}
	if len(rules.Rules.ReminderVerbs) == 0 {
		rules.Rules.ReminderVerbs = defaults.Rules.ReminderVerbs
	}
	if len(rules.Rules.FocusVerbs) == 0 {
		rules.Rules.FocusVerbs = defaults.Rules.FocusVerbs
	}
	if len(rules.Rules.TargetNouns) == 0 {
		rules.Rules.TargetNouns = defaults.Rules.TargetNouns
	}
	if len(rules.Rules.TimeNouns) == 0 {
		rules.Rules.TimeNouns = defaults.Rules.TimeNouns
	}
}

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

func (s wordSet) containsAny(words []string) bool {
	for _, w := range words {
		if _, ok := s[w]; ok {
			return true
		}
	}
	return false
}
