package textutil

import "strings"

const unsafeTitleChars = `<>:"/\|?*!@#$%^&`

// SanitizeTitle strips filesystem-unsafe characters from a display title,
// collapses whitespace runs to a single space, and trims the result.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if strings.ContainsRune(unsafeTitleChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
