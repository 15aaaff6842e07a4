package core

import (
	"errors"
	"testing"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *TariffRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &TariffRecord{Code: "0101", Description: "Kuaj te gjalle", Percentage: 10},
			wantErr: nil,
		},
		{
			name:    "valid record with empty description",
			record:  &TariffRecord{Code: "01"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty code",
			record:  &TariffRecord{Description: "Kuaj"},
			wantErr: ErrEmptyCode,
		},
		{
			name:    "negative rate",
			record:  &TariffRecord{Code: "0101", Tvsh: -18},
			wantErr: ErrNegativeRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeRecords(t *testing.T) {
	input := []*TariffRecord{
		{Code: " 01 ", Description: " Kafshe te gjalla "},
		{Code: "0101", Description: "Kuaj", Percentage: -5},
		{Code: "", Description: "no code"},
		nil,
		{Code: "0101", Description: "Kuaj te gjalle"},
		{Code: "02", Description: "Mish", UomCode: " KG "},
	}

	normalized, dropped := NormalizeRecords(input)

	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(normalized) != 3 {
		t.Fatalf("len(normalized) = %d, want 3", len(normalized))
	}

	if normalized[0].Code != "01" || normalized[0].Description != "Kafshe te gjalla" {
		t.Errorf("first record not trimmed: %+v", normalized[0])
	}

	// Duplicate code: last write wins, original position and seq kept.
	if normalized[1].Description != "Kuaj te gjalle" {
		t.Errorf("duplicate code did not resolve last-write-wins: %+v", normalized[1])
	}
	if normalized[1].Seq != 1 {
		t.Errorf("duplicate kept seq %d, want 1", normalized[1].Seq)
	}

	if normalized[1].Percentage != 0 {
		t.Errorf("negative rate not clamped: %v", normalized[1].Percentage)
	}
	if normalized[2].UomCode != "KG" {
		t.Errorf("uom code not trimmed: %q", normalized[2].UomCode)
	}

	for i, record := range normalized {
		if record.Seq != uint32(i) {
			t.Errorf("record %d has seq %d", i, record.Seq)
		}
	}

	// Input must be untouched.
	if input[0].Code != " 01 " {
		t.Error("NormalizeRecords() mutated its input")
	}
}
