package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	src := `[
		{"code": "01", "description": "Kafshe te gjalla", "tvsh": 18, "validFrom": "2023-01-01"},
		{"code": "0101", "description": "Kuaj", "percentage": "10", "uomCode": "KG", "parentId": "01"},
		{"code": 0102, "description": "Gomar", "percentage": null, "cefta": "3,5"},
		{"code": "02", "description": null, "excise": "n/a"}
	]`

	records, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "01", records[0].Code)
	assert.Equal(t, "Kafshe te gjalla", records[0].Description)
	assert.Equal(t, 18.0, records[0].Tvsh)
	assert.Equal(t, "2023-01-01", records[0].ValidFrom)

	// Numeric string rate, explicit parent pointer.
	assert.Equal(t, 10.0, records[1].Percentage)
	assert.Equal(t, "01", records[1].ParentCode)
	assert.Equal(t, "KG", records[1].UomCode)

	// Numeric code keeps its source text, comma decimal separator accepted.
	assert.Equal(t, "0102", records[2].Code)
	assert.Equal(t, 0.0, records[2].Percentage)
	assert.Equal(t, 3.5, records[2].Cefta)

	// Nulls and garbage coerce to safe defaults.
	assert.Equal(t, "", records[3].Description)
	assert.Equal(t, 0.0, records[3].Excise)
	assert.Equal(t, "", records[3].UomCode)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"not": "an array"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestSources(t *testing.T) {
	ctx := context.Background()

	static := StaticSource{{Code: "01", Description: "Kafshe"}}
	records, err := static.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = static.Load(cancelled)
	assert.Error(t, err)

	_, err = FileSource("testdata/does-not-exist.json").Load(ctx)
	assert.Error(t, err)

	records, err = FileSource("testdata/tariffs.json").Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}
