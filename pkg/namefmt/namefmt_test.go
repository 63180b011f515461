package namefmt

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"two words", "Bartender A", "A, Bartender", true},
		{"plain name", "John Doe", "Doe, John", true},
		{"already canonical", "Doe, John", "Doe, John", true},
		{"leading and trailing spaces", "  Bartender A  ", "A, Bartender", true},
		{"multiple first names", "John James Doe", "Doe, John James", true},
		{"interior whitespace collapsed", "Bartender   A", "A, Bartender", true},
		{"single token", "SingleName", "SingleName", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Format(tc.in)
			if ok != tc.ok {
				t.Fatalf("Format(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Format(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
