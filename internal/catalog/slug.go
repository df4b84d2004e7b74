package catalog

import (
	"strings"
	"unicode"
)

// Slugify derives a filesystem-safe slug from a dataset name: lower-cased,
// runs of non-alphanumerics collapsed to single underscores, with a fixed
// fallback for names that reduce to nothing.
func Slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, ch := range lowered {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteByte('_')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	slug := strings.Join(parts, "_")
	if slug == "" {
		return "dataset"
	}
	return slug
}
