package catalog

import (
	"regexp"
	"strings"
)

var (
	reApostrophe = regexp.MustCompile(`['’]`)
	reParens     = regexp.MustCompile(`\([^)]*\)`)
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify turns a display name into a stable identifier:
// "ParknShop - The Belcher's, HKU" -> "parknshop-the-belchers-hku".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reApostrophe.ReplaceAllString(s, "")
	s = reParens.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&", "and")
	s = reNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
