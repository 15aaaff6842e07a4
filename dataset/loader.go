package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kosdata/tarik/core"
)

// rawRecord mirrors one element of the bundled JSON array. Every field is
// decoded as `any` so a stray string where a number belongs never fails the
// whole load.
type rawRecord struct {
	Code        any `json:"code"`
	Description any `json:"description"`
	ParentID    any `json:"parentId"`
	Percentage  any `json:"percentage"`
	Cefta       any `json:"cefta"`
	Msa         any `json:"msa"`
	Trmtl       any `json:"trmtl"`
	Tvsh        any `json:"tvsh"`
	Excise      any `json:"excise"`
	ValidFrom   any `json:"validFrom"`
	UomCode     any `json:"uomCode"`
}

// Decode reads a JSON array of tariff objects and coerces each element into
// a TariffRecord. Records are returned in source order with Seq unassigned;
// callers normalize the batch through core.NormalizeRecords before use.
func Decode(r io.Reader) ([]*core.TariffRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raws []rawRecord
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	records := make([]*core.TariffRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, &core.TariffRecord{
			Code:        coerceString(raw.Code),
			Description: coerceString(raw.Description),
			ParentCode:  coerceString(raw.ParentID),
			Percentage:  coerceNumber(raw.Percentage),
			Cefta:       coerceNumber(raw.Cefta),
			Msa:         coerceNumber(raw.Msa),
			Trmtl:       coerceNumber(raw.Trmtl),
			Tvsh:        coerceNumber(raw.Tvsh),
			Excise:      coerceNumber(raw.Excise),
			ValidFrom:   coerceString(raw.ValidFrom),
			UomCode:     coerceString(raw.UomCode),
		})
	}
	return records, nil
}

// coerceString renders a decoded JSON value as a string. Numbers keep their
// source text (codes like 0101 arrive as numbers in some exports); nulls and
// unsupported shapes become "".
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// coerceNumber renders a decoded JSON value as a float64, defaulting to 0
// for nulls, empty strings and anything unparsable.
func coerceNumber(v any) float64 {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
