package prompt

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// "keep (m)odified or (d)elete?"
	choicePattern = regexp.MustCompile(`\(([[:alnum:]])\)`)

	// "examine changes to 'a'? [Ynesfdaq?]"
	bracketPattern = regexp.MustCompile(`\[([[:alpha:]?]{2,})\]\s*$`)
)

// Choice is a single-letter answer offered by a prompt.
type Choice struct {
	// Key is the lower-case answer letter
	Key string

	// Default is set if hg picks the choice on an empty answer
	Default bool
}

// ParseChoices extracts the answers offered by an hg prompt. Prompts
// that accept free text yield no choices.
func ParseChoices(body string) []Choice {
	body = strings.TrimRightFunc(body, unicode.IsSpace)

	var choices []Choice
	seen := make(map[string]bool)

	add := func(letter rune, isDefault bool) {
		key := string(unicode.ToLower(letter))
		if seen[key] {
			return
		}
		seen[key] = true
		choices = append(choices, Choice{Key: key, Default: isDefault})
	}

	if m := bracketPattern.FindStringSubmatch(body); m != nil {
		for _, r := range m[1] {
			add(r, unicode.IsUpper(r))
		}
		return choices
	}

	for _, m := range choicePattern.FindAllStringSubmatch(body, -1) {
		add([]rune(m[1])[0], false)
	}

	return choices
}

// Offers reports whether answer is one of choices. Matching ignores
// case and surrounding whitespace.
func Offers(choices []Choice, answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))

	for _, c := range choices {
		if c.Key == answer {
			return true
		}
	}

	return false
}

func hasDefault(choices []Choice) bool {
	for _, c := range choices {
		if c.Default {
			return true
		}
	}

	return false
}
