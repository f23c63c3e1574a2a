package catalog

import (
	"fmt"
	"strings"
)

// Slugify lowercases the name, drops non-ASCII characters and collapses
// every remaining non-alphanumeric run into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r > 127:
			// dropped, no separator
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugWithSuffix appends a numeric suffix for collision retries. The
// counter starts at 1, so the second attempt yields "slug-1".
func SlugWithSuffix(slug string, attempt int) string {
	if attempt <= 1 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, attempt-1)
}
