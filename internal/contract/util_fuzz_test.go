package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateName fuzzes TruncateName with random names and widths.
func FuzzTruncateName(f *testing.F) {
	seeds := []struct {
		name  string
		width int
	}{
		{"EKA FEBRIYANI", 8},
		{"", 4},
		{"ÁNGEL MARTÍNEZ", 5},
		{"short", 100},
		{"abc", 0},
	}
	for _, seed := range seeds {
		f.Add(seed.name, seed.width)
	}

	f.Fuzz(func(t *testing.T, name string, width int) {
		out := TruncateName(name, width)
		if width > 3 && utf8.RuneCountInString(out) > width && utf8.ValidString(name) {
			t.Fatalf("TruncateName(%q, %d) = %q exceeds width", name, width, out)
		}
	})
}
