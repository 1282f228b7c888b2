package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]`)
)

// NormalizeKey lowercases s and collapses every run of non-alphanumeric characters
// into a single underscore ("Post Date" -> "post_date", "CTR (%)" -> "ctr_").
func NormalizeKey(s string) string {
	return nonAlnumRun.ReplaceAllString(strings.ToLower(s), "_")
}

// CompactKey lowercases s and strips every non-alphanumeric character ("X / Twitter" -> "xtwitter").
func CompactKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// ContainsFold reports whether needle is a case-insensitive substring of haystack.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
