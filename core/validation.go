// Copyright 2025 Kosdata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateRecord validates a TariffRecord according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - Duty-rate fields must not be negative
//
// NOT validated:
//   - Description (tariff headings may legitimately be blank)
//   - ParentCode (resolved lazily; a dangling reference falls back to
//     prefix matching)
func ValidateRecord(record *TariffRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if record.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyCode)
	}
	for _, rate := range []float64{
		record.Percentage, record.Cefta, record.Msa,
		record.Trmtl, record.Tvsh, record.Excise,
	} {
		if rate < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeRate)
		}
	}
	return nil
}

// NormalizeRecords prepares a freshly decoded batch for storage:
//
//   - codes and descriptions are whitespace-trimmed
//   - negative rates are clamped to 0
//   - records with an empty code are dropped (returned as the second value)
//   - duplicate codes resolve last-write-wins
//   - Seq is assigned from the surviving insertion order
//
// The input slice is not modified; returned records are fresh copies.
func NormalizeRecords(records []*TariffRecord) (normalized []*TariffRecord, dropped int) {
	byCode := make(map[string]int, len(records))
	normalized = make([]*TariffRecord, 0, len(records))

	for _, record := range records {
		if record == nil {
			dropped++
			continue
		}
		clean := *record
		clean.Code = strings.TrimSpace(clean.Code)
		clean.Description = strings.TrimSpace(clean.Description)
		clean.ParentCode = strings.TrimSpace(clean.ParentCode)
		clean.UomCode = strings.TrimSpace(clean.UomCode)
		clampRates(&clean)

		if clean.Code == "" {
			dropped++
			continue
		}
		if at, ok := byCode[clean.Code]; ok {
			// Last write wins, position of the first occurrence is kept.
			clean.Seq = normalized[at].Seq
			normalized[at] = &clean
			continue
		}
		clean.Seq = uint32(len(normalized))
		byCode[clean.Code] = len(normalized)
		normalized = append(normalized, &clean)
	}
	return normalized, dropped
}

func clampRates(record *TariffRecord) {
	for _, rate := range []*float64{
		&record.Percentage, &record.Cefta, &record.Msa,
		&record.Trmtl, &record.Tvsh, &record.Excise,
	} {
		if *rate < 0 {
			*rate = 0
		}
	}
}
