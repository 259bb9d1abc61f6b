// Package sanitize scrubs identifying tokens from free text before it is
// disclosed to an external generator. Names become "someone", explicit dates
// become "recently", contact details become "[contact]". Deterministic: same
// text in, same text out.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)

	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	monthDayRe  = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)

	wordRe = regexp.MustCompile(`^([A-Z][a-z]+)('s|’s)?$`)
)

// commonCapitalized are capitalized words that carry no identity: pronouns,
// weekdays, relative day names, frequent sentence openers. They survive
// sanitization.
var commonCapitalized = map[string]bool{
	"I": true, "I'm": true, "I've": true, "I'd": true, "I'll": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
	"Today": true, "Yesterday": true, "Tomorrow": true,
	"The": true, "A": true, "An": true, "My": true, "It": true,
	"And": true, "But": true, "Or": true, "So": true, "Not": true,
	"He": true, "She": true, "We": true, "They": true, "You": true,
	"This": true, "That": true, "When": true, "What": true, "How": true,
}

// Sanitize returns the text with identifying tokens generalized. Contact
// details and explicit dates go first so a stray name inside them cannot
// survive; proper nouns are handled last, token by token.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	// Dates before phone numbers: the loose phone pattern would otherwise
	// swallow ISO dates.
	out := emailRe.ReplaceAllString(text, "[contact]")
	out = monthDayRe.ReplaceAllString(out, "recently")
	out = isoDateRe.ReplaceAllString(out, "recently")
	out = slashDateRe.ReplaceAllString(out, "recently")
	out = phoneRe.ReplaceAllString(out, "[contact]")

	return scrubProperNouns(out)
}

// scrubProperNouns replaces capitalized words with "someone". Every
// capitalized token not on the common-word list is treated as a name,
// sentence start included: a false positive reads awkwardly, a false
// negative leaks a name.
func scrubProperNouns(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		core := strings.Trim(f, ".,!?;:\"'()")
		if core == "" || commonCapitalized[core] {
			continue
		}
		m := wordRe.FindStringSubmatch(core)
		if m == nil {
			continue
		}
		replacement := "someone"
		if m[2] != "" {
			replacement = "someone's"
		}
		fields[i] = strings.Replace(f, core, replacement, 1)
	}
	return strings.Join(fields, " ")
}
