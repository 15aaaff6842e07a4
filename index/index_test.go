package index

import (
	"strings"
	"testing"

	"github.com/kosdata/tarik/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexRecords() []*core.TariffRecord {
	return []*core.TariffRecord{
		{Code: "01", Description: "Kafshe te gjalla"},
		{Code: "0101", Description: "Kuaj te gjalle"},
		{Code: "0102", Description: "Gjedhe te gjalla"},
		{Code: "02", Description: "Mish dhe te brendshme"},
		{Code: "72", Description: "Hekuri dhe çeliku"},
		{Code: "7214", Description: "Shufra nga çeliku"},
		{Code: "7304", Description: "Tuba pa tegel, nga hekuri ose çeliku"},
		{Code: "8424", Description: "Aparate mekanike; tubacione"},
	}
}

func mustIndex(t *testing.T, records []*core.TariffRecord) *Index {
	t.Helper()
	ix, err := New(records)
	require.NoError(t, err)
	return ix
}

func hitCodes(hits []Hit) []string {
	codes := make([]string, len(hits))
	for i, hit := range hits {
		codes[i] = hit.Code
	}
	return codes
}

func TestSearchTokenPrefix(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	// "tub" matches every description with a token starting tub-, and
	// nothing else.
	hits := ix.Search("tub", 0)
	assert.Equal(t, []string{"7304", "8424"}, hitCodes(hits))
}

func TestSearchDiacriticInsensitive(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	// Query with diacritic, documents with diacritic.
	assert.Equal(t, []string{"72", "7214", "7304"}, hitCodes(ix.Search("çel", 0)))
	// Query without diacritic matches the same documents.
	assert.Equal(t, []string{"72", "7214", "7304"}, hitCodes(ix.Search("cel", 0)))
	// Case-insensitive too.
	assert.Equal(t, []string{"72", "7214", "7304"}, hitCodes(ix.Search("ÇEL", 0)))
}

func TestSearchAndSemantics(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	// Both tokens must match the same document.
	assert.Equal(t, []string{"7304"}, hitCodes(ix.Search("tuba celiku", 0)))
	assert.Empty(t, ix.Search("tuba mish", 0))
}

func TestSearchPhrase(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	assert.Equal(t, []string{"01", "0102"}, hitCodes(ix.Search(`"te gjalla"`, 0)))
	// The unquoted version also matches 0101 via token prefixes.
	assert.Equal(t, []string{"01", "0101", "0102"}, hitCodes(ix.Search("te gjall", 0)))
}

func TestSearchLimit(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	hits := ix.Search("çel", 2)
	assert.Equal(t, []string{"72", "7214"}, hitCodes(hits))
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := mustIndex(t, indexRecords())
	assert.Nil(t, ix.Search("", 0))
	assert.Nil(t, ix.Search("   ", 0))
}

func TestSearchNoMatch(t *testing.T) {
	ix := mustIndex(t, indexRecords())
	assert.Empty(t, ix.Search("xyzzy", 0))
}

func TestSearchHighlight(t *testing.T) {
	ix := mustIndex(t, indexRecords())

	hits := ix.Search("çel", 0)
	require.NotEmpty(t, hits)
	for _, hit := range hits {
		assert.Contains(t, hit.Highlighted, MarkOpen+"çeliku"+MarkClose, hit.Code)
	}

	// Multi-token query marks every matched token.
	hits = ix.Search("tuba tegel", 0)
	require.Len(t, hits, 1)
	assert.Equal(t,
		"<mark>Tuba</mark> pa <mark>tegel</mark>, nga hekuri ose çeliku",
		hits[0].Highlighted)
}

func TestHighlightPhraseAndOverlap(t *testing.T) {
	terms := ParseQuery(`"te gjalla" gjall`)
	got := Highlight("Kafshe te gjalla", terms)
	// The phrase range and the token mark overlap; they merge into one.
	assert.Equal(t, "Kafshe <mark>te gjalla</mark>", got)
}

func TestHighlightNoMatchReturnsOriginal(t *testing.T) {
	terms := ParseQuery("mish")
	desc := "Hekuri dhe çeliku"
	assert.Equal(t, desc, Highlight(desc, terms))
}

func TestNewParallelBuildMatchesSerial(t *testing.T) {
	// Enough records to cross the chunking threshold.
	var records []*core.TariffRecord
	base := indexRecords()
	for i := range 1500 {
		src := base[i%len(base)]
		records = append(records, &core.TariffRecord{
			Code:        src.Code + "-" + strings.Repeat("x", i%3),
			Description: src.Description,
		})
	}

	parallel, err := New(records, WithPoolSize(4))
	require.NoError(t, err)
	serial, err := New(records, WithPoolSize(1))
	require.NoError(t, err)

	for _, query := range []string{"tub", "çel", "te gjall", `"te gjalla"`} {
		assert.Equal(t, hitCodes(serial.Search(query, 0)), hitCodes(parallel.Search(query, 0)), query)
	}
}
