package extract

import (
	"regexp"
	"strings"
)

// queryStopWords are filler words removed when generating a bag-of-keywords
// search query from a transcript.
var queryStopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "about": {}, "into": {},
	"through": {}, "during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"up": {}, "down": {}, "out": {}, "off": {}, "over": {}, "under": {}, "again": {},
	"further": {}, "then": {}, "once": {}, "here": {}, "there": {}, "when": {},
	"where": {}, "why": {}, "how": {}, "all": {}, "any": {}, "both": {}, "each": {},
	"few": {}, "more": {}, "most": {}, "other": {}, "some": {}, "such": {}, "no": {},
	"nor": {}, "not": {}, "only": {}, "own": {}, "same": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "can": {}, "will": {}, "just": {}, "should": {}, "now": {},
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {}, "ours": {},
	"ourselves": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},
	"yourselves": {}, "he": {}, "him": {}, "his": {}, "himself": {}, "she": {},
	"her": {}, "hers": {}, "herself": {}, "it": {}, "its": {}, "itself": {},
	"they": {}, "them": {}, "their": {}, "theirs": {}, "themselves": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "am": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"having": {}, "do": {}, "does": {}, "did": {}, "doing": {}, "would": {},
	"could": {}, "ought": {}, "might": {}, "must": {},
}

var (
	nonWordRunes = regexp.MustCompile(`[^\w\s]`)
	pureNumber   = regexp.MustCompile(`^\d+$`)
)

// GenerateSearchQuery builds a bag-of-keywords query from a transcript when
// no clear question was extracted: lowercase, strip punctuation, drop stop
// words and pure numbers, dedupe, and keep the first 5 remaining tokens.
func GenerateSearchQuery(transcript string) string {
	cleaned := nonWordRunes.ReplaceAllString(strings.ToLower(transcript), " ")

	seen := make(map[string]struct{})
	keywords := make([]string, 0, 5)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := queryStopWords[word]; stop {
			continue
		}
		if pureNumber.MatchString(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == 5 {
			break
		}
	}

	return strings.Join(keywords, " ")
}

// ExtractKeywords pulls up to max keywords out of free text for query
// augmentation. Unlike GenerateSearchQuery it keeps only words longer than
// three characters, matching how background context is condensed.
func ExtractKeywords(text string, max int) []string {
	cleaned := nonWordRunes.ReplaceAllString(strings.ToLower(text), " ")

	keywords := make([]string, 0, max)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := queryStopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == max {
			break
		}
	}
	return keywords
}
