package utils

import "github.com/microcosm-cc/bluemonday"

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from seller-supplied fields before they
// are persisted.
func SanitizeText(input string) string {
	return strictPolicy.Sanitize(input)
}
