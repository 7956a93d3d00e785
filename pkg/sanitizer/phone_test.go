package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"e164 unchanged", "+380501234567", "+380501234567"},
		{"formatting stripped", "+380 (50) 123-45-67", "+380501234567"},
		{"national ua number", "0501234567", "+380501234567"},
		{"garbage keeps digits", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
