package types

import (
	"encoding/json"
	"testing"
)

func TestNewQuantityFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 10000, false},
		{"1.5", 15000, false},
		{"0.0001", 1, false},
		{"-2.25", -22500, false},
		{"+3", 30000, false},
		{"100.00004", 1000000, false}, // extra digits truncated
		{".5", 5000, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewQuantityFromString(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Int64Scaled() != tt.want {
				t.Errorf("parse %q = %d, want %d", tt.in, got.Int64Scaled(), tt.want)
			}
		})
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		in   Quantity
		want string
	}{
		{0, "0.0000"},
		{10000, "1.0000"},
		{15000, "1.5000"},
		{1, "0.0001"},
		{-22500, "-2.2500"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Quantity(%d).String() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuantityJSON(t *testing.T) {
	q, err := NewQuantityFromString("12.3400")
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "12.3400" {
		t.Errorf("marshal = %s, want 12.3400", data)
	}

	// Both number and string tokens decode.
	var fromNumber Quantity
	if err := json.Unmarshal([]byte("12.34"), &fromNumber); err != nil {
		t.Fatal(err)
	}
	var fromString Quantity
	if err := json.Unmarshal([]byte(`"12.34"`), &fromString); err != nil {
		t.Fatal(err)
	}
	if fromNumber != q || fromString != q {
		t.Errorf("unmarshal mismatch: number=%d string=%d want=%d", fromNumber, fromString, q)
	}
}

func TestQuantityDecimal(t *testing.T) {
	q, err := NewQuantityFromString("20.0000")
	if err != nil {
		t.Fatal(err)
	}
	rate := MustMoney("52.50")

	total := q.Decimal().Mul(rate)
	if total.String() != "1050" {
		t.Errorf("20.0000 * 52.50 = %s, want 1050", total.String())
	}
}
