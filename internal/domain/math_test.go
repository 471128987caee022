package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafeParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid integer", "100", "100"},
		{"valid decimal", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"negative", "-5.5", "-5.5"},
		{"explicit plus", "+7", "7"},
		{"empty string", "", "0"},
		{"invalid string", "abc", "0"},
		{"whitespace", "  ", "0"},
		{"grouped", "1,000", "1000"},
		{"grouped decimal", "12,345.678", "12345.678"},
		{"numeric prefix", "12abc", "12"},
		{"second dot stops", "1.2.3", "1.2"},
		{"leading dot", ".5", "0.5"},
		{"trailing dot", "10.", "10"},
		{"lone sign", "-", "0"},
		{"lone dot", ".", "0"},
		{"percent suffix", "2.5%", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeParse(tt.input)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SafeParse(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"1,000", "1000"},
		{"$1,000.50", "1000.5"},
		{"-25", "25"},
		{"", "0"},
		{"abc", "0"},
		{"1 000", "1000"},
		{"0.125", "0.125"},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.input)
		want, _ := decimal.NewFromString(tt.want)
		if !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
		}
	}
}

func TestParseThreshold(t *testing.T) {
	if _, ok := ParseThreshold(""); ok {
		t.Error("empty threshold should not be present")
	}
	if _, ok := ParseThreshold("abc"); ok {
		t.Error("non-numeric threshold should not be present")
	}

	d, ok := ParseThreshold("1.5")
	if !ok || !d.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("ParseThreshold(1.5) = %s, %v", d, ok)
	}

	d, ok = ParseThreshold("0")
	if !ok || !d.IsZero() {
		t.Errorf("ParseThreshold(0) = %s, %v, want present zero", d, ok)
	}
}

func TestCrossRate(t *testing.T) {
	eur := decimal.RequireFromString("0.92")
	usd := decimal.NewFromInt(1)

	if got := CrossRate(eur, eur); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("CrossRate(x, x) = %s, want exactly 1", got)
	}
	if got := CrossRate(usd, decimal.RequireFromString("0.5")); !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("CrossRate(1, 0.5) = %s, want 2", got)
	}
	if got := CrossRate(usd, decimal.Zero); !got.IsZero() {
		t.Errorf("CrossRate with zero base = %s, want 0", got)
	}
}

func TestApplyMargin(t *testing.T) {
	tests := []struct {
		value, margin, want string
	}{
		{"2000", "10", "2200"},
		{"2000", "0", "2000"},
		{"100", "-5", "95"},
		{"1.2345", "2.5", "1.2653625"},
	}

	for _, tt := range tests {
		got := ApplyMargin(decimal.RequireFromString(tt.value), decimal.RequireFromString(tt.margin))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ApplyMargin(%s, %s) = %s, want %s", tt.value, tt.margin, got, tt.want)
		}
	}
}

func TestFormatFixed(t *testing.T) {
	d := decimal.RequireFromString("2000")
	if got := FormatFixed(d, 2); got != "2000.00" {
		t.Errorf("FormatFixed(2000, 2) = %q", got)
	}
	if got := FormatFixed(decimal.RequireFromString("149.5"), 0); got != "150" {
		t.Errorf("FormatFixed(149.5, 0) = %q, want 150", got)
	}
	if got := FormatFixed(decimal.RequireFromString("0.12345"), RateDecimals); got != "0.1235" {
		t.Errorf("FormatFixed(0.12345, 4) = %q, want 0.1235", got)
	}
}
