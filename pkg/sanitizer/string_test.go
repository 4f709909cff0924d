package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Ana Torres  ", want: "Ana Torres"},
		{name: "multiple spaces between words", input: "Ana    Torres", want: "Ana Torres"},
		{name: "tabs and newlines", input: "Ana\t\nTorres", want: "Ana Torres"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve accents", input: " José Peña ", want: "José Peña"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Player@Example.COM", "player@example.com"},
		{"  admin@tenniscourt.com ", "admin@tenniscourt.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{0, 1, 6, 1},
		{-3, 1, 6, 1},
		{4, 1, 6, 4},
		{9, 1, 6, 6},
	}

	for _, tt := range tests {
		if got := ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
