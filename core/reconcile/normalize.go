package reconcile

import (
	"regexp"
	"strings"
	"time"

	"content-planner/core/utils"

	"github.com/araddon/dateparse"
)

// platformAliases maps compacted spellings (lowercase, alphanumerics only) to
// canonical platform names. Canonical names are added by init.
var platformAliases = map[string]string{
	"twitter":   "X/Twitter",
	"x":         "X/Twitter",
	"xtwitter":  "X/Twitter",
	"ig":        "Instagram",
	"instagram": "Instagram",
	"fb":        "Facebook",
	"facebook":  "Facebook",
	"linkedin":  "LinkedIn",
	"tiktok":    "TikTok",
	"yt":        "YouTube",
	"youtube":   "YouTube",
	"threads":   "Threads",
	"pinterest": "Pinterest",
}

func init() {
	for _, p := range Platforms {
		platformAliases[utils.CompactKey(p)] = p
	}
}

// NormalizePlatform resolves a free-form platform cell ("IG", "x", "Linked-In")
// to its canonical name. It returns "" when the value is not recognized.
func NormalizePlatform(value string) string {
	return platformAliases[utils.CompactKey(value)]
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDate returns value as YYYY-MM-DD. ISO dates are accepted verbatim;
// anything else goes through a generic parser and is reformatted in loc.
func NormalizeDate(value string, loc *time.Location) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if isoDate.MatchString(value) {
		return value, true
	}
	if loc == nil {
		loc = time.UTC
	}

	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return "", false
	}
	return t.In(loc).Format("2006-01-02"), true
}
