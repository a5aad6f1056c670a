package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// noisePattern matches characters outside the allow-list of CJK
	// ideographs, ASCII alphanumerics, and common punctuation. Everything
	// else in raw OCR output is treated as recognition noise.
	noisePattern = regexp.MustCompile("[^\\p{Han}a-zA-Z0-9.,?!;:'\"()\\[\\]{}<>/\\\\ \\-_+=@#$%^&*|~`，。！？；：、]")
)

// Normalizer cleans raw OCR output into a stable question candidate.
// The correction table and question keyword list are injected so vendor
// specific confusion fixes live in configuration, not code.
type Normalizer struct {
	replacer *strings.Replacer
	keywords []string
}

// NewNormalizer builds a Normalizer from a confusion-correction table and a
// list of leading interrogative keywords.
func NewNormalizer(corrections map[string]string, questionKeywords []string) *Normalizer {
	pairs := make([]string, 0, len(corrections)*2)
	for wrong, right := range corrections {
		pairs = append(pairs, wrong, right)
	}
	keywords := make([]string, 0, len(questionKeywords))
	for _, kw := range questionKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &Normalizer{
		replacer: strings.NewReplacer(pairs...),
		keywords: keywords,
	}
}

// Normalize applies the cleanup pipeline: whitespace collapsing, width
// folding, noise stripping, confusion correction, and question extraction.
// Empty input passes through unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	text := strings.TrimSpace(whitespacePattern.ReplaceAllString(raw, " "))
	// Fold full-width digit/letter lookalikes to their ASCII forms before
	// the allow-list pass so they survive noise stripping. Folding is
	// per-rune and limited to letters and digits: full-width CJK punctuation
	// (？，。) must stay as-is for the allow-list and sentence splitting.
	text = foldAlnum(text)
	text = noisePattern.ReplaceAllString(text, "")
	text = collapseRepeatedPunct(text)
	text = n.replacer.Replace(text)
	text = strings.TrimSpace(text)

	if n.looksLikeQuestion(text) {
		return extractQuestion(text)
	}
	return text
}

// looksLikeQuestion reports whether the text contains a question mark or
// starts with a configured interrogative keyword.
func (n *Normalizer) looksLikeQuestion(text string) bool {
	if strings.ContainsAny(text, "?？") {
		return true
	}
	lowered := strings.ToLower(text)
	for _, kw := range n.keywords {
		if strings.HasPrefix(lowered, kw) {
			return true
		}
	}
	return false
}

// extractQuestion keeps the sentences that carry a question mark, joined by
// spaces; when none do, the last sentence is the best candidate.
func extractQuestion(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}

	var questions []string
	for _, sentence := range sentences {
		if strings.ContainsAny(sentence, "?？") {
			questions = append(questions, sentence)
		}
	}
	if len(questions) > 0 {
		return strings.TrimSpace(strings.Join(questions, " "))
	}
	return strings.TrimSpace(sentences[len(sentences)-1])
}

// splitSentences splits on sentence terminators, keeping each terminator
// attached to its sentence. Blank fragments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		switch r {
		case '.', '。', '!', '！', '?', '？':
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// collapseRepeatedPunct reduces runs of the same punctuation character to a
// single instance. Letters, digits, and ideographs are never collapsed.
func collapseRepeatedPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var last rune = -1
	for _, r := range text {
		if r == last && isPunct(r) {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

// foldAlnum maps full-width letters and digits to their ASCII forms,
// leaving every other rune untouched.
func foldAlnum(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if folded := width.LookupRune(r).Folded(); folded != 0 && isASCIIAlnum(folded) {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isPunct(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == ' ':
		return false
	case r >= 0x4E00 && r <= 0x9FFF:
		return false
	}
	return true
}
