package orders

import (
	"regexp"
	"testing"
	"unicode/utf8"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		slug string
		seq  int
		want string
	}{
		{"dodam", 4, "DO-004"},
		{"dodam", 1, "DO-001"},
		{"bean", 42, "BE-042"},
		{"x", 7, "X-007"},
		{"", 1, "-001"}, // empty slug degrades to empty prefix
		{"단골집", 7, "단골-007"},
		{"dodam", 1000, "DO-1000"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.slug, c.seq); got != c.want {
			t.Errorf("FormatNumber(%q, %d) = %q, want %q", c.slug, c.seq, got, c.want)
		}
	}
}

func TestNumberPrefix(t *testing.T) {
	cases := map[string]string{
		"dodam": "DO",
		"ab":    "AB",
		"a":     "A",
		"":      "",
		"단골집":   "단골", // characters, not bytes
	}
	for slug, want := range cases {
		got := NumberPrefix(slug)
		if got != want {
			t.Errorf("NumberPrefix(%q) = %q, want %q", slug, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("NumberPrefix(%q) = %q is not valid UTF-8", slug, got)
		}
	}
}

func TestFormatNumberShape(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]{0,2}-\d{3}$`)
	for _, slug := range []string{"dodam", "x", ""} {
		for seq := 1; seq <= 999; seq += 137 {
			n := FormatNumber(slug, seq)
			if !re.MatchString(n) {
				t.Fatalf("FormatNumber(%q, %d) = %q does not match ticket shape", slug, seq, n)
			}
		}
	}
}
