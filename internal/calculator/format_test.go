package calculator

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 1234.5, want: "$1,234.50"},
		{in: 0, want: "$0.00"},
		{in: 5, want: "$5.00"},
		{in: 18.333333, want: "$18.33"},
		{in: 1.6666667, want: "$1.67"},
		{in: 1234567.891, want: "$1,234,567.89"},
		{in: -3, want: "-$3.00"},
		{in: math.NaN(), want: "$0.00"},
		{in: math.Inf(1), want: "$0.00"},
		{in: math.Inf(-1), want: "$0.00"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantNaN bool
	}{
		{in: "100", want: 100},
		{in: "  12.5 ", want: 12.5},
		{in: "12.5abc", want: 12.5},
		{in: ".5", want: 0.5},
		{in: "5.", want: 5},
		{in: "-7", want: -7},
		{in: "1e3", want: 1000},
		{in: "2e", want: 2},
		{in: "3e+x", want: 3},
		{in: "-Infinity", want: math.Inf(-1)},
		{in: "", wantNaN: true},
		{in: "abc", wantNaN: true},
		{in: ".", wantNaN: true},
		{in: "-", wantNaN: true},
	}

	for _, tt := range tests {
		got := parseLeadingFloat(tt.in)
		if tt.wantNaN {
			if !math.IsNaN(got) {
				t.Errorf("parseLeadingFloat(%q) = %v, want NaN", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("parseLeadingFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{in: "4", want: 4, wantOK: true},
		{in: " 12 ", want: 12, wantOK: true},
		{in: "2.9", want: 2, wantOK: true},
		{in: "-3", want: -3, wantOK: true},
		{in: "7people", want: 7, wantOK: true},
		{in: "", wantOK: false},
		{in: "x", wantOK: false},
		{in: "+", wantOK: false},
		{in: "9223372036854775807", want: 9223372036854775807, wantOK: true},
		{in: "99999999999999999999", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseLeadingInt(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("parseLeadingInt(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
