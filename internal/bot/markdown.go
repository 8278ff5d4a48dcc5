package bot

import "strings"

// Characters that break a [text](url) markdown link inside an embed.
const linkSpecialChars = `[]()\`

var linkLookup = func() [256]bool {
	var m [256]bool
	for i := 0; i < len(linkSpecialChars); i++ {
		m[linkSpecialChars[i]] = true
	}
	return m
}()

func escapeLinkText(input string) string {
	charsToEscape := 0

	for i := 0; i < len(input); i++ {
		if linkLookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := 0; i < len(input); i++ {
		c := input[i]
		if linkLookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}
