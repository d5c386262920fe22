package nlu

import (
	"regexp"
	"strings"
)

var unitWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var teenWords = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var reCompound = regexp.MustCompile(`(?i)\b(twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)[-\s](one|two|three|four|five|six|seven|eight|nine)\b`)

// wordNumber finds the first English number word in text and returns its
// value (1-99), or 0 when none is present. Hyphenated compounds like
// "twenty-five" win over their tens prefix.
func wordNumber(text string) int {
	lower := strings.ToLower(text)

	if m := reCompound.FindStringSubmatch(lower); m != nil {
		return tensWords[m[1]] + unitWords[m[2]]
	}

	for _, token := range splitWords(lower) {
		if v, ok := teenWords[token]; ok {
			return v
		}
		if v, ok := tensWords[token]; ok {
			return v
		}
		if v, ok := unitWords[token]; ok {
			return v
		}
	}
	return 0
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
