package util

import "strings"

func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// AddSpace inserts a space between every ASCII and non-ASCII run, so translated
// violation messages read naturally in CJK locales.
func AddSpace(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && IsASCII(s[i:i+1]) != IsASCII(s[i-1:i]) && s[i-1] != ' ' && s[i] != ' ' {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
