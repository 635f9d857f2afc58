package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// localPattern pairs a question-shaped regex with a fixed confidence weight.
type localPattern struct {
	re         *regexp.Regexp
	confidence float64
}

// Ordered from most to least specific. Reported speech about a question is a
// stronger signal than a bare question word.
var localPatterns = []localPattern{
	// Direct questions
	{regexp.MustCompile(`(?i)(?:interviewer|they|he|she)\s+(?:asked|asks|asking)\s+(?:me\s+)?(?:about\s+)?([^.?!]+[?.!]?)`), 0.9},
	{regexp.MustCompile(`(?i)(?:the\s+)?question\s+(?:was|is)\s+(?:about\s+)?([^.?!]+[?.!]?)`), 0.8},
	{regexp.MustCompile(`(?i)(?:they|he|she)\s+wanted\s+to\s+know\s+(?:about\s+)?([^.?!]+[?.!]?)`), 0.8},

	// Indirect questions
	{regexp.MustCompile(`(?i)(?:asked|asking)\s+(?:me\s+)?(?:to\s+)?(?:explain|describe|tell|discuss)\s+([^.?!]+)`), 0.7},
	{regexp.MustCompile(`(?i)(?:can\s+you|could\s+you|would\s+you)\s+(?:explain|tell|describe|help)\s+(?:me\s+)?(?:with\s+)?([^.?!]+)`), 0.7},

	// Question words
	{regexp.MustCompile(`(?i)(?:what|how|why|when|where|which|who)\s+(?:is|are|do|does|did|was|were|will|would|could|should)\s+([^.?!]+)`), 0.6},
	{regexp.MustCompile(`(?i)(?:what|how|why|when|where|which|who)\s+([^.?!]+)`), 0.5},

	// General inquiry patterns
	{regexp.MustCompile(`(?i)(?:tell\s+me|explain|describe)\s+(?:about\s+)?([^.?!]+)`), 0.5},
	{regexp.MustCompile(`(?i)(?:i\s+need\s+to\s+know|i\s+want\s+to\s+know|i\s+should\s+know)\s+(?:about\s+)?([^.?!]+)`), 0.6},
}

// trivialCaptures are captures too generic to be a question on their own.
var trivialCaptures = map[string]struct{}{
	"it": {}, "that": {}, "this": {}, "yes": {}, "no": {}, "ok": {}, "okay": {},
}

// ExtractLocally runs the regex pattern list over the transcript and returns
// the highest-confidence candidate, or nil when nothing usable matches.
// It makes no remote calls and never fails.
func ExtractLocally(transcript string) *Question {
	var best *Question

	for _, p := range localPatterns {
		loc := p.re.FindStringSubmatchIndex(transcript)
		if loc == nil || loc[2] < 0 {
			continue
		}

		captured := strings.TrimSpace(transcript[loc[2]:loc[3]])
		if len(captured) < 5 {
			continue
		}
		if _, trivial := trivialCaptures[strings.ToLower(captured)]; trivial {
			continue
		}

		candidate := &Question{
			Question:   cleanQuestionText(captured),
			Context:    surroundingExcerpt(transcript, loc[0], loc[1]),
			Confidence: p.confidence,
		}

		if best == nil || candidate.Confidence > best.Confidence {
			best = candidate
		}
	}

	return best
}

// cleanQuestionText collapses whitespace, strips trailing separators, and
// capitalizes the first letter.
func cleanQuestionText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ",;")
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// surroundingExcerpt returns the transcript slice around [start,end) padded
// by 50 bytes on each side, widened so the cut never splits a rune.
func surroundingExcerpt(transcript string, start, end int) string {
	from := start - 50
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(transcript[from]) {
		from--
	}
	to := end + 50
	if to > len(transcript) {
		to = len(transcript)
	}
	for to < len(transcript) && !utf8.RuneStart(transcript[to]) {
		to++
	}
	return transcript[from:to]
}
