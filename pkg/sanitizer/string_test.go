package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Kyiv  ", "Kyiv"},
		{"internal runs collapsed", "Nova   Poshta   Branch  12", "Nova Poshta Branch 12"},
		{"tabs and newlines", "Ivan\t\nPetrenko", "Ivan Petrenko"},
		{"already clean", "Bosch GSB 13 RE", "Bosch GSB 13 RE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
