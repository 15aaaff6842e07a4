package core

import (
	"encoding/binary"
	"strings"
)

// ID is a 64-bit content-derived identifier. It is used for dataset
// generation fingerprints: two loads of byte-identical datasets produce the
// same ID.
type ID uint64

// TariffRecord is a single tariff line item. Records are immutable after
// load; the whole set is only ever replaced wholesale.
type TariffRecord struct {
	Code        string
	Description string
	ParentCode  string // explicit parent reference, empty when hierarchy is prefix-derived
	Percentage  float64
	Cefta       float64
	Msa         float64
	Trmtl       float64
	Tvsh        float64
	Excise      float64
	ValidFrom   string
	UomCode     string // empty means no unit of measure
	Seq         uint32 // insertion order, tertiary sort key
}

// Row is a record as returned by queries, optionally annotated with
// highlight markup over the description. Highlighted is empty when the row
// was not a text hit.
type Row struct {
	Record      *TariffRecord
	Highlighted string
}

// Node is one node of a rendered tariff tree. A node exclusively owns its
// children through SubRows; there are no child-to-parent back references.
type Node struct {
	Record      *TariffRecord
	Highlighted string
	SubRows     []*Node
}

// CompareRecords defines the total sibling order: code, then description,
// then insertion sequence. It is the single ordering used for tree levels
// and result emission.
func CompareRecords(a, b *TariffRecord) int {
	if c := strings.Compare(a.Code, b.Code); c != 0 {
		return c
	}
	if c := strings.Compare(a.Description, b.Description); c != 0 {
		return c
	}
	if a.Seq != b.Seq {
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	}
	return 0
}

// RowsFromRecords wraps records as plain rows without highlights.
func RowsFromRecords(records []*TariffRecord) []*Row {
	rows := make([]*Row, len(records))
	for i, record := range records {
		rows[i] = &Row{Record: record}
	}
	return rows
}

// FingerprintRecords derives the generation ID of a dataset from its codes
// and descriptions in order. Used to tag one loaded/indexed snapshot.
func FingerprintRecords(records []*TariffRecord) ID {
	var sb strings.Builder
	for _, record := range records {
		sb.WriteString(record.Code)
		sb.WriteByte(0x1f)
		sb.WriteString(record.Description)
		sb.WriteByte(0x1e)
	}
	return IDFromContent(sb.String())
}

// EncodeID serializes an ID to 8 bytes.
func EncodeID(id ID) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(id))
	return buf
}

// DecodeID deserializes an ID produced by EncodeID.
func DecodeID(data []byte) (ID, error) {
	if len(data) < 8 {
		return 0, ErrTruncatedID
	}
	return ID(binary.LittleEndian.Uint64(data)), nil
}
