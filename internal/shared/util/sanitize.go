package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 255

// SanitizeFileName normalizes an uploaded attachment name. Path separators
// are replaced, traversal patterns and control characters are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return "", errors.New("invalid file name")
		}
	}
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > maxFileNameLen {
		s = s[len(s)-maxFileNameLen:]
	}
	return s, nil
}
