package storage

import (
	"testing"

	"github.com/kosdata/tarik/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecord(t *testing.T) {
	record := &core.TariffRecord{
		Code:        "010121",
		Description: "Kuaj per mbareshtim te race se paster",
		ParentCode:  "0101",
		Percentage:  10,
		Cefta:       0,
		Msa:         5,
		Trmtl:       0,
		Tvsh:        18,
		Excise:      0,
		ValidFrom:   "2023-01-01",
		UomCode:     "P/ST",
		Seq:         42,
	}

	data, err := MarshalRecord(record)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestUnmarshalRecordInvalid(t *testing.T) {
	_, err := UnmarshalRecord([]byte{0xc1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
