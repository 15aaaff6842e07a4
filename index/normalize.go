package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases a string and strips diacritics, so "Çeliku" and "celiku"
// index and match identically.
func Fold(s string) string {
	// Transformers carry state, so build a fresh chain per call; Fold is
	// used from concurrent build workers.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// foldRunes folds rune-by-rune, preserving alignment with the input: output
// rune i corresponds to input rune i. Used by highlighting to map matches in
// folded text back onto the original description.
func foldRunes(src []rune) []rune {
	folded := make([]rune, len(src))
	for i, r := range src {
		folded[i] = foldRune(r)
	}
	return folded
}

func foldRune(r rune) rune {
	if r < 0x80 {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	for _, d := range norm.NFD.String(string(r)) {
		if !unicode.Is(unicode.Mn, d) {
			return unicode.ToLower(d)
		}
	}
	return unicode.ToLower(r)
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// span is a token's half-open rune range within a description.
type span struct {
	start, end int
}

// tokenSpans returns the token ranges of a folded rune slice.
func tokenSpans(folded []rune) []span {
	var spans []span
	start := -1
	for i, r := range folded {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(folded)})
	}
	return spans
}

// Term is one parsed query term, already folded.
type Term struct {
	Text   string
	Phrase bool // quoted phrases match contiguously instead of per-token
}

// ParseQuery splits a raw query into folded terms. Whitespace separates
// terms; double-quoted runs become one phrase term. Empty terms are
// dropped.
func ParseQuery(query string) []Term {
	var terms []Term
	var current strings.Builder
	inPhrase := false

	flush := func(phrase bool) {
		text := strings.Join(strings.Fields(Fold(current.String())), " ")
		current.Reset()
		if text == "" {
			return
		}
		terms = append(terms, Term{Text: text, Phrase: phrase && strings.Contains(text, " ")})
	}

	for _, r := range query {
		switch {
		case r == '"':
			flush(inPhrase)
			inPhrase = !inPhrase
		case unicode.IsSpace(r) && !inPhrase:
			flush(false)
		default:
			current.WriteRune(r)
		}
	}
	flush(inPhrase)
	return terms
}
