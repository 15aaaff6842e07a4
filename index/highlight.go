package index

import (
	"slices"
	"strings"
)

// Markers wrapped around matched tokens in highlighted descriptions. The
// consuming renderer treats them as opaque emphasis delimiters.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Highlight returns the description with every token matched by any term
// wrapped in MarkOpen/MarkClose. Token terms mark the whole token they
// prefix; phrase terms mark the contiguous matched range. Overlapping marks
// merge. When nothing matches, the description is returned unchanged.
func Highlight(description string, terms []Term) string {
	orig := []rune(description)
	folded := foldRunes(orig)
	spans := tokenSpans(folded)

	var marks []span
	for _, term := range terms {
		needle := []rune(term.Text)
		if len(needle) == 0 {
			continue
		}
		if term.Phrase {
			marks = append(marks, findRuneRanges(folded, needle)...)
			continue
		}
		for _, sp := range spans {
			if sp.end-sp.start < len(needle) {
				continue
			}
			if runesEqual(folded[sp.start:sp.start+len(needle)], needle) {
				marks = append(marks, sp)
			}
		}
	}
	if len(marks) == 0 {
		return description
	}

	marks = mergeSpans(marks)

	var sb strings.Builder
	last := 0
	for _, mark := range marks {
		sb.WriteString(string(orig[last:mark.start]))
		sb.WriteString(MarkOpen)
		sb.WriteString(string(orig[mark.start:mark.end]))
		sb.WriteString(MarkClose)
		last = mark.end
	}
	sb.WriteString(string(orig[last:]))
	return sb.String()
}

func findRuneRanges(haystack, needle []rune) []span {
	var found []span
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			found = append(found, span{i, i + len(needle)})
		}
	}
	return found
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeSpans(spans []span) []span {
	slices.SortFunc(spans, func(a, b span) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return a.end - b.end
	})
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start <= last.end {
			if sp.end > last.end {
				last.end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}
