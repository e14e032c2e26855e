package domain

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSubTopicName derives the canonical identity key of a subtopic
// from its display name: lowercase, trimmed, whitespace runs collapsed to
// a single '-', and every character outside [a-z0-9-] stripped.
//
// The result is the lookup key for learning targets, so the function must
// be deterministic and idempotent: NormalizeSubTopicName(x) applied twice
// equals applying it once.
func NormalizeSubTopicName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
