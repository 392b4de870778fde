// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// nonAlphanumericRunRe matches runs of anything outside [a-z0-9].
var nonAlphanumericRunRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a user label to an id slug.
//
// Rules:
//  1. Trim whitespace and lowercase
//  2. Collapse every run of non [a-z0-9] characters into a single dash
//  3. Trim leading/trailing dashes
//
// Examples:
//
//	"No Seller / Quick" → "no-seller-quick"
//	"  Compact  "       → "compact"
//	"Café Deals"        → "caf-deals"
//	"!!!"               → ""
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphanumericRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// PrefixedSlug returns prefix + Slugify(label), substituting fallback when the
// slug is empty so ids are never bare prefixes.
func PrefixedSlug(prefix, label, fallback string) string {
	slug := Slugify(label)
	if slug == "" {
		slug = fallback
	}
	return prefix + slug
}
