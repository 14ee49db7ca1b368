package agent

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "because": true, "been": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"for": true, "from": true, "had": true, "has": true, "have": true,
	"he": true, "her": true, "his": true, "how": true, "i": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true,
	"just": true, "like": true, "may": true, "more": true, "most": true,
	"new": true, "no": true, "not": true, "now": true, "of": true,
	"on": true, "one": true, "only": true, "or": true, "other": true,
	"our": true, "out": true, "over": true, "said": true, "says": true,
	"she": true, "should": true, "so": true, "some": true, "such": true,
	"than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "to": true, "up": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "which": true,
	"while": true, "who": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

var wordRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9'-]*`)

// tokenize lower-cases and splits text into word tokens, stopwords included.
func tokenize(s string) []string {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "'-")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// contentTokens returns tokens with stopwords and very short words removed.
func contentTokens(s string) []string {
	var out []string
	for _, w := range tokenize(s) {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func wordCount(s string) int { return len(tokenize(s)) }

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// splitSentences breaks prose into trimmed sentences, skipping fragments too
// short to carry a claim.
func splitSentences(s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	var out []string
	for _, m := range sentenceRe.FindAllString(s, -1) {
		m = strings.TrimSpace(m)
		if wordCount(m) >= 4 {
			out = append(out, m)
		}
	}
	return out
}

// normalizeTitle lowers case and strips punctuation so near-identical
// headlines from different outlets compare equal.
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// topTerms returns the n most frequent content tokens, frequency-descending
// with alphabetical tie-break for determinism.
func topTerms(tokens []string, n int) []string {
	freq := make(map[string]int)
	for _, t := range tokens {
		freq[t]++
	}
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// overlapDensity measures what fraction of the topic's content tokens appear
// in the candidate text. Used as a relevance fallback.
func overlapDensity(topic, text string) float64 {
	topicTokens := contentTokens(topic)
	if len(topicTokens) == 0 {
		return 0
	}
	have := make(map[string]bool)
	for _, t := range contentTokens(text) {
		have[t] = true
	}
	hit := 0
	for _, t := range topicTokens {
		if have[t] {
			hit++
		}
	}
	return float64(hit) / float64(len(topicTokens))
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := cutRunes(s, max)
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

// cutRunes slices s to at most max bytes without splitting a multibyte rune.
func cutRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
