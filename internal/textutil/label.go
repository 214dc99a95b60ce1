package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelCaser = cases.Title(language.Spanish)

// TitleLabel normalizes a taxonomy label for display: trimmed, collapsed
// whitespace, title-cased per Spanish casing rules.
func TitleLabel(label string) string {
	label = CollapseWhitespace(label)
	if label == "" {
		return ""
	}
	return labelCaser.String(strings.ToLower(label))
}
