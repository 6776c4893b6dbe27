package extractor

import (
	"bytes"
	"strings"
	"testing"
)

func TestExtractPagesRejectsNonPDF(t *testing.T) {
	data := []byte("not a pdf at all")
	if _, err := ExtractPages(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("non-PDF input extracted, want error")
	}
}

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{
			name: "cyrillic statement text",
			pages: []string{
				"01.01.2024 Оплата товаров и услуг МАГНИТ -1 500.00 RUR, карта 1234",
			},
			want: true,
		},
		{
			name: "latin statement text",
			pages: []string{
				"01.01.2024 Payment to MAGNIT store, card 1234, total -1 500.00 RUR",
			},
			want: true,
		},
		{
			name:  "identity-encoded garbage",
			pages: []string{strings.Repeat("\uFFFD\u0001\u0002", 30)},
			want:  false,
		},
		{
			name:  "too short to judge",
			pages: []string{"Итог: 100"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.want {
				t.Errorf("isReadableText = %v, want %v", got, tt.want)
			}
		})
	}
}
