package download

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "周杰伦 - 晴天", "周杰伦 - 晴天"},
		{"illegal characters", `AC/DC - Back: "In" Black?`, "AC_DC - Back_ _In_ Black_"},
		{"windows reserved", "a<b>c|d*e", "a_b_c_d_e"},
		{"surrounding dots and spaces", " . track . ", "track"},
		{"empty becomes unknown", "", "unknown"},
		{"only dots and spaces becomes unknown", " .. ", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("很", 300)
	got := SanitizeFilename(long)
	if runes := []rune(got); len(runes) != maxFilenameLength {
		t.Errorf("length = %d runes, want %d", len(runes), maxFilenameLength)
	}
}

func TestSanitizeFilenameIsIdempotent(t *testing.T) {
	inputs := []string{
		// Truncation lands exactly on a space here.
		strings.Repeat("a", 199) + " trailing text well beyond the cap",
		strings.Repeat("b", 199) + "...dots past the cap",
		" . mixed/name? . ",
		strings.Repeat("很", 300),
		"",
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("SanitizeFilename is not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
