package orders

import (
	"fmt"
	"strings"
)

// NumberPrefix takes the first two characters of the store slug, upper-cased.
// Characters, not bytes, so multibyte slugs keep valid ticket prefixes. An
// empty slug degrades to an empty prefix rather than failing.
func NumberPrefix(storeSlug string) string {
	p := []rune(storeSlug)
	if len(p) > 2 {
		p = p[:2]
	}
	return strings.ToUpper(string(p))
}

// FormatNumber builds the ticket string for the given per-store-per-day
// sequence number, e.g. FormatNumber("dodam", 4) -> "DO-004". Sequences past
// 999 widen past three digits instead of wrapping.
func FormatNumber(storeSlug string, seq int) string {
	return fmt.Sprintf("%s-%03d", NumberPrefix(storeSlug), seq)
}
