package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\p{Han}\s\p{Z}-]+`)
	slugWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify menurunkan slug URL dari nama produk.
// Hanya huruf a-z, angka, ideograf CJK, dan tanda hubung yang tersisa.
func Slugify(s string) string {
	s = strings.TrimSpace(cases.Lower(language.Und).String(s))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
