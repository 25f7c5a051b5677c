package util

import (
	"strings"
	"unicode"
)

const maxFileNameLen = 128

// SanitizeFileName strips directories and control characters from a
// client-supplied file name. An unusable name becomes "upload".
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "upload"
	}
	if len(s) > maxFileNameLen {
		s = s[:maxFileNameLen]
	}
	return s
}
