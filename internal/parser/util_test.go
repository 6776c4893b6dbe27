package parser

import (
	"testing"
	"time"
)

func TestParseDecimalAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"100.50", "100.5", false},
		{"-250", "-250", false},
		{"1 234,56", "1234.56", false},
		{"-1 234,56", "-1234.56", false},
		{"-12\u00a0500.00", "-12500", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := parseDecimalAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDecimalAmount(%q) succeeded with %s, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDecimalAmount(%q) failed: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseDecimalAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseDateDropsTime(t *testing.T) {
	got, err := parseDate(layoutDateTime, "15.03.2024 18:42")
	if err != nil {
		t.Fatalf("parseDate failed: %v", err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDate = %v, want %v", got, want)
	}
}

func TestParseTimestampKeepsTime(t *testing.T) {
	got, err := parseTimestamp(layoutOperationDate, "15/03/2024 18:42")
	if err != nil {
		t.Fatalf("parseTimestamp failed: %v", err)
	}
	want := time.Date(2024, 3, 15, 18, 42, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseTimestamp = %v, want %v", got, want)
	}
}
