package query

import (
	"context"
	"testing"

	"github.com/kosdata/tarik/core"
	badgerstore "github.com/kosdata/tarik/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineRecords() []*core.TariffRecord {
	records := []*core.TariffRecord{
		{Code: "01", Description: "Kafshe te gjalla"},
		{Code: "0101", Description: "Kuaj te gjalle"},
		{Code: "010121", Description: "Kuaj per mbareshtim te race se paster"},
		{Code: "0102", Description: "Gjedhe te gjalla"},
		{Code: "02", Description: "Mish dhe te brendshme"},
		{Code: "0201", Description: "Mish gjedhi i fresket"},
		{Code: "72", Description: "Hekuri dhe çeliku"},
		{Code: "7214", Description: "Shufra nga çeliku"},
	}
	for i, record := range records {
		record.Seq = uint32(i)
	}
	return records
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, func()) {
	t.Helper()
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)

	ctx := context.Background()
	records := engineRecords()
	require.NoError(t, repo.ReplaceAll(ctx, records, core.FingerprintRecords(records)))

	engine, err := NewEngine(repo, opts...)
	require.NoError(t, err)
	return engine, func() { repo.Close(); backend.Close() }
}

func rowCodes(rows []*core.Row) []string {
	codes := make([]string, len(rows))
	for i, row := range rows {
		codes[i] = row.Record.Code
	}
	return codes
}

func TestNewEngineRequiresRepository(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestSearchBothEmptyReturnsAllCapped(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	rows := engine.Search(context.Background(), "", "", nil)
	assert.Equal(t,
		[]string{"01", "0101", "010121", "0102", "02", "0201", "72", "7214"},
		rowCodes(rows))

	capped := engine.Search(context.Background(), "", "", &Limits{ItemLimit: 3})
	assert.Equal(t, []string{"01", "0101", "010121"}, rowCodes(capped))

	oneRoot := engine.Search(context.Background(), "", "", &Limits{ParentLimit: 1})
	assert.Equal(t, []string{"01", "0101", "010121", "0102"}, rowCodes(oneRoot))
}

func TestSearchCodePrefixExpandsSubtree(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	rows := engine.Search(context.Background(), "72", "", nil)
	assert.Equal(t, []string{"72", "7214"}, rowCodes(rows))

	for _, row := range rows {
		assert.True(t, row.Record.Code == "72" || row.Record.Code[:2] == "72")
	}
}

func TestSearchCodePrefixIncludesAncestorContext(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	// 0101 is not a root; its ancestor 01 is included so the subtree
	// renders connected, and its descendant 010121 comes along.
	rows := engine.Search(context.Background(), "0101", "", nil)
	assert.Equal(t, []string{"01", "0101", "010121"}, rowCodes(rows))
}

func TestSearchTextOnly(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	rows := engine.Search(context.Background(), "", "çel", nil)
	assert.Equal(t, []string{"72", "7214"}, rowCodes(rows))

	var highlighted int
	for _, row := range rows {
		if row.Highlighted != "" {
			highlighted++
			assert.Contains(t, row.Highlighted, "<mark>çeliku</mark>")
		}
	}
	assert.Equal(t, 2, highlighted)
}

func TestSearchTextExpandsToSubtreeWithAncestors(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	// "mbareshtim" hits only 010121; the result still renders under its
	// real ancestors 01 and 0101.
	rows := engine.Search(context.Background(), "", "mbareshtim", nil)
	assert.Equal(t, []string{"01", "0101", "010121"}, rowCodes(rows))

	assert.Empty(t, rows[0].Highlighted)
	assert.Empty(t, rows[1].Highlighted)
	assert.Contains(t, rows[2].Highlighted, "<mark>mbareshtim</mark>")
}

func TestSearchCombinedRootBranchPolicy(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	// "gjalle" hits only 0101, but the whole matching branch under root
	// 01 stays visible.
	rows := engine.Search(context.Background(), "01", "gjalle", nil)
	assert.Equal(t, []string{"01", "0101", "010121", "0102"}, rowCodes(rows))
}

func TestSearchCombinedRowIntersectPolicy(t *testing.T) {
	engine, done := newTestEngine(t, WithPolicy(PolicyRowIntersect))
	defer done()

	// Only 0101 satisfies both filters itself; expansion still adds its
	// ancestor and descendants, but not the unrelated sibling 0102.
	rows := engine.Search(context.Background(), "01", "gjalle", nil)
	assert.Equal(t, []string{"01", "0101", "010121"}, rowCodes(rows))
}

func TestSearchCombinedIsSubsetOfPrefixOnly(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	ctx := context.Background()
	prefixOnly := map[string]bool{}
	for _, row := range engine.Search(ctx, "01", "", nil) {
		prefixOnly[row.Record.Code] = true
	}

	for _, row := range engine.Search(ctx, "01", "gjalle", nil) {
		assert.True(t, prefixOnly[row.Record.Code],
			"combined result %s not in prefix-only result", row.Record.Code)
	}
}

func TestSearchNoMatches(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	ctx := context.Background()
	assert.Empty(t, engine.Search(ctx, "99", "", nil))
	assert.Empty(t, engine.Search(ctx, "", "xyzzy", nil))
	assert.Empty(t, engine.Search(ctx, "72", "mish", nil))
}

func TestSearchSwallowsStorageFailure(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	engine, err := NewEngine(repo)
	require.NoError(t, err)

	repo.Close()
	backend.Close()

	rows := engine.Search(context.Background(), "01", "", nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestResetCachesPicksUpNewGeneration(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	first := engineRecords()
	require.NoError(t, repo.ReplaceAll(ctx, first, core.FingerprintRecords(first)))

	engine, err := NewEngine(repo)
	require.NoError(t, err)
	require.NotEmpty(t, engine.Search(ctx, "01", "", nil))

	second := []*core.TariffRecord{
		{Code: "84", Description: "Makineri dhe pajisje mekanike", Seq: 0},
	}
	require.NoError(t, repo.ReplaceAll(ctx, second, core.FingerprintRecords(second)))

	// The materialized snapshot is stale until caches reset.
	assert.Len(t, engine.GetAll(ctx), len(first))

	engine.ResetCaches()
	assert.Len(t, engine.GetAll(ctx), 1)
	assert.Empty(t, engine.Search(ctx, "01", "", nil))
	assert.Equal(t, []string{"84"}, rowCodes(engine.Search(ctx, "84", "makineri", nil)))
}

func TestWarm(t *testing.T) {
	engine, done := newTestEngine(t)
	defer done()

	require.NoError(t, engine.Warm(context.Background()))
	rows := engine.GetAll(context.Background())
	assert.Len(t, rows, len(engineRecords()))
}
